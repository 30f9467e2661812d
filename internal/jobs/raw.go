package jobs

// RawRecord is one source-native result before normalization. Its shape is
// owned by the source that produced it; only that source's normalizer may
// interpret it.
type RawRecord = map[string]any
