package domain

// Wire types for the remote retrieval protocol. The same shapes are
// produced by the HTTP API server and consumed by the remote client, so a
// RetrieveResult survives a round trip through them unchanged.

// RetrieveRequest is the request body for a remote retrieval call.
type RetrieveRequest struct {
	Language     string `json:"language"`
	Query        string `json:"query"`
	K            int    `json:"k"`
	ChunkContext int    `json:"chunk_context"`
}

// RetrieveResponse is the wire form of a RetrieveResult.
type RetrieveResponse struct {
	Query   string       `json:"query"`
	Results []WireResult `json:"results"`
}

// WireResult is one per-file result on the wire.
type WireResult struct {
	Score     float64        `json:"score"`
	Documents []WireDocument `json:"documents"`
}

// WireDocument carries one chunk and its addressing metadata.
type WireDocument struct {
	Content  string       `json:"content"`
	Metadata WireMetadata `json:"metadata"`
}

// WireMetadata is the stable external reference to a passage.
type WireMetadata struct {
	FileID     string `json:"file_id"`
	ChunkIndex int    `json:"chunk_index"`
	Path       string `json:"path"`
}

// ChunksResponse is the wire form of a file's full chunk sequence.
type ChunksResponse struct {
	FileID string         `json:"file_id"`
	Chunks []WireDocument `json:"chunks"`
}

// LanguagesResponse enumerates the languages a server holds stores for.
type LanguagesResponse struct {
	Languages []string `json:"languages"`
}

// WireError is the structured error body: the failing key is named so
// callers see exactly which value was rejected.
type WireError struct {
	Error string `json:"error"`
	Value string `json:"value,omitempty"`
}

// ToWire converts a retrieval result to its wire form.
func ToWire(query string, result RetrieveResult) RetrieveResponse {
	resp := RetrieveResponse{
		Query:   query,
		Results: make([]WireResult, len(result)),
	}
	for i, fr := range result {
		wr := WireResult{
			Score:     fr.Score,
			Documents: make([]WireDocument, len(fr.Chunks)),
		}
		for j, c := range fr.Chunks {
			wr.Documents[j] = WireDocument{
				Content: c.Text,
				Metadata: WireMetadata{
					FileID:     c.FileID,
					ChunkIndex: c.Index,
					Path:       c.Path,
				},
			}
		}
		resp.Results[i] = wr
	}
	return resp
}

// FromWire converts a wire response back to a retrieval result.
func FromWire(resp RetrieveResponse) RetrieveResult {
	result := make(RetrieveResult, len(resp.Results))
	for i, wr := range resp.Results {
		fr := FileResult{
			Score:  wr.Score,
			Chunks: make([]Chunk, len(wr.Documents)),
		}
		for j, d := range wr.Documents {
			fr.Chunks[j] = Chunk{
				FileID: d.Metadata.FileID,
				Index:  d.Metadata.ChunkIndex,
				Text:   d.Content,
				Path:   d.Metadata.Path,
			}
		}
		result[i] = fr
	}
	return result
}
