package planner

// FrameJob converts one picture into one raw frame.
type FrameJob struct {
	Index  int    // Position in the sorted picture list.
	Name   string // Picture filename, as listed.
	Source string // Full path of the picture.
	Frame  string // Full path of the raw frame to write.
}

// PairJob scores Right against Left (Left is the reference).
type PairJob struct {
	Index  int // Pairs[i] compares Frames[i] and Frames[i+1].
	Left   FrameJob
	Right  FrameJob
	Result string // Distinct result file for this pair.
}

// Plan holds every job of a run in execution order.
type Plan struct {
	FrameDir  string
	ResultDir string
	Frames    []FrameJob
	Pairs     []PairJob
}
