package domain

// KeyPrefix namespaces every key the redis backend writes.
const KeyPrefix = "docdex:"

// VectorConfig holds internal vectorization settings, not exposed to clients.
type VectorConfig struct {
	Model            string
	Dimensions       int
	DistanceMetric   string
	Algorithm        string
	QueryInstruction string
}

// DefaultVectorConfig returns the default configuration tuned for text-embedding-3-large.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:          "text-embedding-3-large",
		Dimensions:     3072,
		DistanceMetric: "cosine",
		Algorithm:      "hnsw",
	}
}
