package generation

// ChunkSize is the number of days requested from the generation endpoint per call.
const ChunkSize = 30

// Chunk is one contiguous day range requested in a single endpoint call.
// StartDay and EndDay are global, 1-based and inclusive.
type Chunk struct {
	Index         int
	StartDay      int
	EndDay        int
	ChunkDuration int
	Offset        int
}

// NumChunks returns ceil(totalDuration / ChunkSize), or 0 for non-positive durations.
func NumChunks(totalDuration int) int {
	if totalDuration <= 0 {
		return 0
	}
	return (totalDuration + ChunkSize - 1) / ChunkSize
}

// PlanChunks splits totalDuration into consecutive chunks of at most ChunkSize days.
func PlanChunks(totalDuration int) []Chunk {
	n := NumChunks(totalDuration)
	chunks := make([]Chunk, 0, n)
	for i := 0; i < n; i++ {
		start := i*ChunkSize + 1
		end := min((i+1)*ChunkSize, totalDuration)
		chunks = append(chunks, Chunk{
			Index:         i,
			StartDay:      start,
			EndDay:        end,
			ChunkDuration: end - start + 1,
			Offset:        start - 1,
		})
	}
	return chunks
}
