package sim

import (
	"errors"
	"fmt"
)

// ErrAlreadyFinalized is returned by a second Finalize call.
var ErrAlreadyFinalized = errors.New("shot table already finalized")

// ShotTable sums, across replicas, the occupation value observed at every
// (shot, site). Cells are row-major: shot first, then site.
//
// After k replicas each cell holds the sum over exactly k replicas, so
// |cell| <= k. int32 cells hold any replica count Config.Validate accepts.
type ShotTable struct {
	shots     int
	sites     int
	cells     []int32
	replicas  int
	finalized bool
}

// NewShotTable allocates a zeroed table of shots x sites cells.
func NewShotTable(shots, sites int) *ShotTable {
	return &ShotTable{
		shots: shots,
		sites: sites,
		cells: make([]int32, shots*sites),
	}
}

// Shots returns the number of rows.
func (st *ShotTable) Shots() int { return st.shots }

// Sites returns the number of columns.
func (st *ShotTable) Sites() int { return st.sites }

// Replicas returns how many complete replicas have been accumulated.
func (st *ShotTable) Replicas() int { return st.replicas }

// AddRow adds the ring's values into row shot.
func (st *ShotTable) AddRow(shot int, ring Ring) {
	row := st.cells[shot*st.sites : (shot+1)*st.sites]
	for i, v := range ring {
		row[i] += int32(v)
	}
}

// CompleteReplica marks one more replica as fully accumulated.
func (st *ShotTable) CompleteReplica() {
	st.replicas++
}

// Row returns the accumulated sums of row shot. The slice aliases the table.
func (st *ShotTable) Row(shot int) []int32 {
	return st.cells[shot*st.sites : (shot+1)*st.sites]
}

// At returns the accumulated sum at (shot, site).
func (st *ShotTable) At(shot, site int) int32 {
	return st.cells[shot*st.sites+site]
}

// Merge adds other into st. Integer addition makes the reduction exact, so
// the merge order of worker tables never changes the result.
func (st *ShotTable) Merge(other *ShotTable) error {
	if other.shots != st.shots || other.sites != st.sites {
		return fmt.Errorf("merging %dx%d table into %dx%d table", other.shots, other.sites, st.shots, st.sites)
	}
	if st.finalized || other.finalized {
		return ErrAlreadyFinalized
	}
	for i, v := range other.cells {
		st.cells[i] += v
	}
	st.replicas += other.replicas
	return nil
}

// Finalize divides every cell by replicas and returns the mean profile.
// It may be called once; the table is left unchanged.
func (st *ShotTable) Finalize(replicas int) (*Profile, error) {
	if st.finalized {
		return nil, ErrAlreadyFinalized
	}
	if replicas <= 0 {
		return nil, fmt.Errorf("%w: replicas must be positive, got %d", ErrConfiguration, replicas)
	}
	st.finalized = true

	values := make([]float64, len(st.cells))
	for i, v := range st.cells {
		values[i] = float64(v) / float64(replicas)
	}
	return &Profile{Shots: st.shots, Sites: st.sites, Values: values}, nil
}

// Profile is the finalized replica-mean occupation table, row-major by shot
// then site. Row s is the lattice profile at simulated time s*DtShot.
type Profile struct {
	Shots  int
	Sites  int
	Values []float64
}

// At returns the mean occupation at (shot, site).
func (p *Profile) At(shot, site int) float64 {
	return p.Values[shot*p.Sites+site]
}

// Row returns the profile of one shot. The slice aliases the profile.
func (p *Profile) Row(shot int) []float64 {
	return p.Values[shot*p.Sites : (shot+1)*p.Sites]
}
