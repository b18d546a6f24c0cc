package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Individual is one candidate solution: a decision vector, the objective
// values computed from it, and any constraint violations.
type Individual struct {
	X []float64 `json:"x"`
	F []float64 `json:"f"`
	C []float64 `json:"c,omitempty"`
}

func (ind Individual) Clone() Individual {
	out := Individual{
		X: append([]float64(nil), ind.X...),
		F: append([]float64(nil), ind.F...),
	}
	if len(ind.C) > 0 {
		out.C = append([]float64(nil), ind.C...)
	}
	return out
}

func CloneIndividuals(individuals []Individual) []Individual {
	if individuals == nil {
		return nil
	}
	out := make([]Individual, len(individuals))
	for i, ind := range individuals {
		out[i] = ind.Clone()
	}
	return out
}

// Dominates reports whether fitness vector a Pareto-dominates b: no worse in
// every objective and strictly better in at least one. Objectives minimize.
func Dominates(a, b []float64) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	strict := false
	for i := range a {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			strict = true
		}
	}
	return strict
}

// Better orders two fitness vectors: dominance first, first objective as the
// tie-break between mutually non-dominated vectors.
func Better(a, b []float64) bool {
	if Dominates(a, b) {
		return true
	}
	if Dominates(b, a) {
		return false
	}
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return a[0] < b[0]
}

// MigrationRecord is one migration history item in arrival order.
type MigrationRecord struct {
	Count       int `json:"count" csv:"count"`
	Origin      int `json:"origin" csv:"origin"`
	Destination int `json:"destination" csv:"destination"`
}

// RunRecord describes one archipelago run for persistence and listing.
type RunRecord struct {
	VersionedRecord
	ID             string  `json:"id"`
	CreatedAtUTC   string  `json:"created_at_utc"`
	Problem        string  `json:"problem"`
	Algorithm      string  `json:"algorithm"`
	Topology       string  `json:"topology"`
	Islands        int     `json:"islands"`
	PopulationSize int     `json:"population_size"`
	Epochs         int     `json:"epochs"`
	DurationMS     int64   `json:"duration_ms,omitempty"`
	Distribution   string  `json:"distribution"`
	Direction      string  `json:"direction"`
	Seed           int64   `json:"seed"`
	BestFitness    float64 `json:"best_fitness"`
	Migrations     int     `json:"migrations"`
	ElapsedMS      int64   `json:"elapsed_ms"`
}
