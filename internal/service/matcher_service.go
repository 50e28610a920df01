package service

import (
	"context"
	"encoding/json"
	"math"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/repository"
	"sort"
	"strings"
)

type MatcherService struct {
	UserRepo *repository.UserRepository
	Embedder *EmbeddingClient
}

func NewMatcherService(userRepo *repository.UserRepository, embedder *EmbeddingClient) *MatcherService {
	return &MatcherService{
		UserRepo: userRepo,
		Embedder: embedder,
	}
}

type SkillMatch struct {
	User           model.PublicUser `json:"user"`
	Score          float64          `json:"score"`
	MatchingSkills []string         `json:"matching_skills"`
	Skills         []model.Skill    `json:"skills"`
}

// Match 对每个候选用户: 每个期望技能取与该用户所有技能的最大相似度，
// 再对期望技能求均值。双方都有向量用余弦相似度，否则名称精确匹配记 1.0。
// 返回得分最高的前 10 名
func (s *MatcherService) Match(ctx context.Context, userID uint, desired []string) ([]SkillMatch, error) {
	normalized := make([]string, 0, len(desired))
	for _, d := range desired {
		d = strings.TrimSpace(d)
		if d != "" {
			normalized = append(normalized, d)
		}
	}
	if len(normalized) == 0 {
		return []SkillMatch{}, nil
	}

	desiredVecs := make([][]float64, len(normalized))
	if s.Embedder != nil && s.Embedder.Enabled() {
		for i, name := range normalized {
			vec, err := s.Embedder.Embed(ctx, name)
			if err == nil {
				desiredVecs[i] = vec
			}
		}
	}

	candidates, err := s.UserRepo.AllExcept(userID)
	if err != nil {
		return nil, err
	}

	var matches []SkillMatch
	for _, cand := range candidates {
		if len(cand.Skills) == 0 {
			continue
		}

		total := 0.0
		var matching []string
		for i, name := range normalized {
			best := 0.0
			for _, sk := range cand.Skills {
				sim := similarity(name, desiredVecs[i], &sk)
				if sim > best {
					best = sim
				}
				if strings.EqualFold(sk.Name, name) {
					matching = appendUnique(matching, sk.Name)
				}
			}
			total += best
		}

		score := total / float64(len(normalized))
		if score <= 0 {
			continue
		}
		matches = append(matches, SkillMatch{
			User:           cand.Public(),
			Score:          math.Round(score*10000) / 10000,
			MatchingSkills: matching,
			Skills:         cand.Skills,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > 10 {
		matches = matches[:10]
	}
	if matches == nil {
		matches = []SkillMatch{}
	}
	return matches, nil
}

// similarity 双方都有向量时用余弦相似度，否则精确名称匹配记 1.0
func similarity(desiredName string, desiredVec []float64, skill *model.Skill) float64 {
	if len(desiredVec) > 0 && skill.Embedding != "" {
		var vec []float64
		if err := json.Unmarshal([]byte(skill.Embedding), &vec); err == nil && len(vec) == len(desiredVec) {
			return cosine(desiredVec, vec)
		}
	}
	if strings.EqualFold(desiredName, skill.Name) {
		return 1.0
	}
	return 0.0
}

func cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return list
		}
	}
	return append(list, v)
}
