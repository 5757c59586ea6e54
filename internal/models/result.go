package models

type RankedCandidate struct {
	Filename      string   `json:"filename"`
	Email         string   `json:"email"`
	Similarity    float64  `json:"similarity"`
	Rating        float64  `json:"rating"`
	Justification string   `json:"justification"`
	KeyMatches    []string `json:"key_matches"`
	Skills        string   `json:"skills"`
	Experience    string   `json:"experience"`
	Education     string   `json:"education"`
}

type RankResponse struct {
	Candidates []RankedCandidate `json:"candidates"`
	Message    string            `json:"message,omitempty"`
}

type ResumeListResponse struct {
	Resumes []Resume `json:"resumes"`
	Count   int      `json:"count"`
}

type SearchMatch struct {
	Filename string  `json:"filename"`
	Email    string  `json:"email"`
	Score    float32 `json:"score"`
}

type SearchResponse struct {
	Query   string        `json:"query"`
	Matches []SearchMatch `json:"matches"`
}
