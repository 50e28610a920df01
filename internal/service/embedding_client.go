package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"skillxchange_backend/internal/config"
	"time"
)

// EmbeddingClient 调用外部向量服务。未配置时所有调用返回 nil，
// 上层一律容忍 embedding 缺失
type EmbeddingClient struct {
	Cfg    *config.EmbeddingConfig
	Client *http.Client
}

func NewEmbeddingClient(cfg *config.EmbeddingConfig) *EmbeddingClient {
	return &EmbeddingClient{
		Cfg:    cfg,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (e *EmbeddingClient) Enabled() bool {
	return e.Cfg != nil && e.Cfg.BaseURL != ""
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed 单条文本向量化
func (e *EmbeddingClient) Embed(ctx context.Context, text string) ([]float64, error) {
	if !e.Enabled() {
		return nil, nil
	}

	body, err := json.Marshal(embeddingRequest{Model: e.Cfg.Model, Input: []string{text}})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Cfg.BaseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.Cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.Cfg.APIKey)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned status %d", resp.StatusCode)
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) == 0 {
		return nil, nil
	}
	return parsed.Data[0].Embedding, nil
}
