package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/services"
)

type fakeRanker struct {
	lastParams services.RankParams
	result     *services.RankResult
	err        error
}

func (f *fakeRanker) Rank(_ context.Context, params services.RankParams) (*services.RankResult, error) {
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newRankApp(ranker services.RankerService, llmConfigured bool, maxFileSize int64) *fiber.App {
	app := fiber.New()
	handler := NewRankHandler(ranker, llmConfigured, maxFileSize, 5)
	app.Post("/api/v1/rank", handler.HandleRank)
	return app
}

func rankRequest(t *testing.T, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for name, content := range files {
		part, err := writer.CreateFormFile("resumes", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rank", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandleRankRequiresJobDescription(t *testing.T) {
	app := newRankApp(&fakeRanker{}, false, 1<<20)

	resp, err := app.Test(rankRequest(t, map[string]string{}, map[string]string{
		"a.txt": "Go developer",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleRankRejectsLLMWithoutCredential(t *testing.T) {
	app := newRankApp(&fakeRanker{}, false, 1<<20)

	resp, err := app.Test(rankRequest(t, map[string]string{
		"job_description": "Go developer",
		"use_llm":         "true",
	}, map[string]string{"a.txt": "Go developer"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleRankModelUnavailable(t *testing.T) {
	app := newRankApp(&fakeRanker{err: services.ErrModelUnavailable}, false, 1<<20)

	resp, err := app.Test(rankRequest(t, map[string]string{
		"job_description": "Go developer",
	}, map[string]string{"a.txt": "Go developer"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandleRankNoValidResumes(t *testing.T) {
	app := newRankApp(&fakeRanker{err: services.ErrNoValidResumes}, false, 1<<20)

	resp, err := app.Test(rankRequest(t, map[string]string{
		"job_description": "Go developer",
	}, map[string]string{"a.docx": "unsupported"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandleRankSkipsOversizedFiles(t *testing.T) {
	ranker := &fakeRanker{err: services.ErrNoValidResumes}
	app := newRankApp(ranker, false, 8)

	resp, err := app.Test(rankRequest(t, map[string]string{
		"job_description": "Go developer",
	}, map[string]string{"huge.txt": "this resume exceeds the configured size limit"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	require.Empty(t, ranker.lastParams.Files)
}

func TestHandleRankSuccess(t *testing.T) {
	ranker := &fakeRanker{result: &services.RankResult{
		Candidates: []models.RankedCandidate{
			{
				Filename:      "a.txt",
				Email:         "alice@example.com",
				Similarity:    0.91,
				Rating:        9.2,
				Justification: "Strong alignment on key terms like: go, kubernetes.",
				KeyMatches:    []string{"go", "kubernetes"},
				Skills:        "Go, Kubernetes",
				Experience:    "Engineer at Initech",
				Education:     "B.Sc. 2019",
			},
		},
	}}
	app := newRankApp(ranker, true, 1<<20)

	resp, err := app.Test(rankRequest(t, map[string]string{
		"job_description": "Go developer with Kubernetes",
		"keywords":        "go",
		"top_n":           "3",
		"use_llm":         "true",
	}, map[string]string{"a.txt": "Go developer alice@example.com"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var decoded models.RankResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.Len(t, decoded.Candidates, 1)
	require.Equal(t, "a.txt", decoded.Candidates[0].Filename)
	require.Equal(t, 9.2, decoded.Candidates[0].Rating)
	require.Empty(t, decoded.Message)

	require.Equal(t, "Go developer with Kubernetes", ranker.lastParams.JobDescription)
	require.Equal(t, "go", ranker.lastParams.Keywords)
	require.Equal(t, 3, ranker.lastParams.TopN)
	require.True(t, ranker.lastParams.UseLLM)
	require.Len(t, ranker.lastParams.Files, 1)
}
