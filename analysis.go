package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// analysisClient talks to the optional local analysis backend for mood
// scans, meme retrieval and cross-domain life insights. Every endpoint may
// answer 200 with an {"error": ...} body, so failures come in two shapes;
// both are recoverable and callers fall back to a local result.
type analysisClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAnalysisClient(baseURL string) *analysisClient {
	return &analysisClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type moodScan struct {
	Emotion string `json:"emotion"`
	MemeURL string `json:"meme_url"`
}

type lifeAnalysis struct {
	Insights       []string `json:"insights"`
	Recommendation string   `json:"recommendation"`
}

// fallbackMemes maps emotions onto canned meme URLs for when the backend
// or its upstream services are unreachable.
var fallbackMemes = map[string][]string{
	"angry": {
		"https://media.giphy.com/media/11tTNkNy1SdXGg/giphy.gif",
		"https://media.giphy.com/media/WoF3yfYupTt8mHc7va/giphy.gif",
	},
	"sad": {
		"https://media.giphy.com/media/OPU6wzx8JrHna/giphy.gif",
		"https://media.giphy.com/media/7SF5scGB2AFrgsXP63/giphy.gif",
	},
	"happy": {
		"https://media.giphy.com/media/3oEjI6SIIHBdRxXI40/giphy.gif",
		"https://media.giphy.com/media/chzz1FQgqhszAEiyNd/giphy.gif",
	},
	"neutral": {
		"https://media.giphy.com/media/l3q2K5jinAlChoCLS/giphy.gif",
		"https://media.giphy.com/media/hzrvwvnb9BsYXfq7u2/giphy.gif",
	},
}

func fallbackMeme(emotion string) string {
	memes, ok := fallbackMemes[emotion]
	if !ok {
		memes = fallbackMemes["neutral"]
	}
	return memes[rand.Intn(len(memes))]
}

func (a *analysisClient) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+endpoint, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("analysis backend unreachable: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("analysis backend returned status %d", resp.StatusCode)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("analysis backend sent malformed response: %w", err)
	}
	if errMsg, ok := raw["error"]; ok {
		var msg string
		_ = json.Unmarshal(errMsg, &msg)
		return fmt.Errorf("analysis backend: %s", msg)
	}

	merged, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(merged, out)
}

// AnalyzeMood triggers a webcam mood scan on the backend.
func (a *analysisClient) AnalyzeMood(ctx context.Context) (moodScan, error) {
	var scan moodScan
	err := a.do(ctx, http.MethodPost, "/analyze_mood", nil, &scan)
	return scan, err
}

// Meme fetches a meme for an emotion, falling back to the canned list when
// the backend cannot serve one.
func (a *analysisClient) Meme(ctx context.Context, emotion string) (string, error) {
	var result struct {
		MemeURL string `json:"meme_url"`
	}
	endpoint := "/fetch_meme_reddit?emotion=" + url.QueryEscape(emotion)
	if err := a.do(ctx, http.MethodGet, endpoint, nil, &result); err != nil || result.MemeURL == "" {
		return fallbackMeme(emotion), nil
	}
	return result.MemeURL, nil
}

// Transcribe forwards a recorded audio clip to the backend's speech-to-text
// endpoint and returns the transcription.
func (a *analysisClient) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/transcribe", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("analysis backend unreachable: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("analysis backend returned status %d", resp.StatusCode)
	}

	var result struct {
		Transcription string `json:"transcription"`
		Error         string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("analysis backend sent malformed response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("analysis backend: %s", result.Error)
	}
	return result.Transcription, nil
}

type lifeData struct {
	JournalEntries []JournalEntry `json:"journal_entries"`
	FinanceData    []Transaction  `json:"finance_data"`
	HabitData      []Habit        `json:"habit_data"`
}

// AnalyzeLife asks the backend to correlate journal, finance and habit
// data into a small set of insights.
func (a *analysisClient) AnalyzeLife(ctx context.Context, data lifeData) (lifeAnalysis, error) {
	var result struct {
		Analysis string `json:"analysis"`
	}
	if err := a.do(ctx, http.MethodPost, "/analyze_life", data, &result); err != nil {
		return lifeAnalysis{}, err
	}

	var analysis lifeAnalysis
	if err := json.Unmarshal([]byte(result.Analysis), &analysis); err != nil {
		return lifeAnalysis{}, fmt.Errorf("analysis backend sent malformed life analysis: %w", err)
	}
	return analysis, nil
}
