package augment

const (
	// DefaultCheckpointEvery is how many conversations, counted by absolute
	// dataset index, separate two checkpoint saves.
	DefaultCheckpointEvery = 10

	// DefaultPreviewLength is how many characters of each output are shown
	// in progress logs.
	DefaultPreviewLength = 200
)

// Options configures an Augmenter run.
type Options struct {
	// Start is the first conversation index processed (inclusive).
	Start int

	// End is the conversation index processing stops at (exclusive). A
	// negative End, or one past the dataset length, means the dataset length.
	End int

	// CheckpointEvery saves the dataset after conversation idx whenever
	// (idx+1) is a multiple of it. Zero means DefaultCheckpointEvery.
	CheckpointEvery int

	// PreviewLength bounds output previews in progress logs. Zero means
	// DefaultPreviewLength.
	PreviewLength int

	// RunID tags execution records handed to sinks.
	RunID string
}

func (o Options) withDefaults() Options {
	if o.CheckpointEvery <= 0 {
		o.CheckpointEvery = DefaultCheckpointEvery
	}
	if o.PreviewLength <= 0 {
		o.PreviewLength = DefaultPreviewLength
	}
	return o
}

// Bounds resolves the [start, end) conversation range for a dataset of n
// conversations.
func Bounds(start, end, n int) (int, int) {
	if end < 0 || end > n {
		end = n
	}
	if start < 0 {
		start = 0
	}
	if start > end {
		start = end
	}
	return start, end
}
