package question

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/abelbrown/tourfeed/internal/remote"
	"github.com/abelbrown/tourfeed/internal/trait"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/questions.yaml
var defaultQuestions []byte

// Source serves the questionnaire and scores a completed run.
type Source interface {
	Name() string
	Questions(ctx context.Context, language string) ([]Question, error)
	Recommend(ctx context.Context, language string, answers []string) (Result, error)
}

// axes are the MBTI letter pairs in type order. Ties go to the first letter.
var axes = [4][2]string{{"E", "I"}, {"S", "N"}, {"T", "F"}, {"J", "P"}}

// FixtureSource reads questions from YAML and scores answers locally by
// counting option letters. The recommended regions come from profiles.
type FixtureSource struct {
	name     string
	path     string
	data     []byte
	profiles trait.Source
}

// NewFixtureSource reads from path on every call.
func NewFixtureSource(path string, profiles trait.Source) *FixtureSource {
	return &FixtureSource{name: "fixture:" + path, path: path, profiles: profiles}
}

// DefaultFixture returns the built-in questionnaire.
func DefaultFixture(profiles trait.Source) *FixtureSource {
	return &FixtureSource{name: "fixture:builtin", data: defaultQuestions, profiles: profiles}
}

func (s *FixtureSource) Name() string { return s.name }

func (s *FixtureSource) Questions(ctx context.Context, language string) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := s.data
	if s.path != "" {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read questions: %w", err)
		}
		data = b
	}

	var doc struct {
		Questions []Question `yaml:"questions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	for i, q := range doc.Questions {
		if len(q.Letters) != len(q.Options) {
			return nil, fmt.Errorf("question %d: %d options but %d letters", i+1, len(q.Options), len(q.Letters))
		}
	}
	return doc.Questions, nil
}

func (s *FixtureSource) Recommend(ctx context.Context, language string, answers []string) (Result, error) {
	questions, err := s.Questions(ctx, language)
	if err != nil {
		return Result{}, err
	}
	if len(answers) != len(questions) {
		return Result{}, fmt.Errorf("got %d answers for %d questions: %w", len(answers), len(questions), ErrAnswerCount)
	}

	counts := make(map[string]int)
	for i, q := range questions {
		idx := indexOf(q.Options, answers[i])
		if idx < 0 {
			return Result{}, fmt.Errorf("question %d: %q: %w", i+1, answers[i], ErrNoOption)
		}
		counts[strings.ToUpper(q.Letters[idx])]++
	}

	var mbti strings.Builder
	for _, pair := range axes {
		if counts[pair[1]] > counts[pair[0]] {
			mbti.WriteString(pair[1])
		} else {
			mbti.WriteString(pair[0])
		}
	}

	res := Result{MBTI: mbti.String()}
	if s.profiles != nil {
		profiles, err := s.profiles.Load(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("load profiles: %w", err)
		}
		if p, ok := trait.Find(profiles, res.MBTI); ok {
			res.Tags = p.Tags
			res.RecommendedRegions = p.RecommendedRegions
		}
	}
	return res.normalized(), nil
}

func indexOf(options []string, answer string) int {
	for i, o := range options {
		if o == answer {
			return i
		}
	}
	return -1
}

// Default backend endpoints.
const (
	DefaultQuestionsPath = "/generate_question"
	DefaultRecommendPath = "/rag_recommend"
)

// RemoteSource asks the personality backend for questions and a
// recommendation. Both calls need a signed-in token; a 401 surfaces as
// remote.ErrUnauthorized.
type RemoteSource struct {
	client        *remote.Client
	questionsPath string
	recommendPath string
}

// NewRemoteSource creates a source; empty paths use the defaults.
func NewRemoteSource(client *remote.Client, questionsPath, recommendPath string) *RemoteSource {
	if questionsPath == "" {
		questionsPath = DefaultQuestionsPath
	}
	if recommendPath == "" {
		recommendPath = DefaultRecommendPath
	}
	return &RemoteSource{client: client, questionsPath: questionsPath, recommendPath: recommendPath}
}

func (s *RemoteSource) Name() string {
	return "remote:" + s.client.BaseURL()
}

func (s *RemoteSource) Questions(ctx context.Context, language string) ([]Question, error) {
	var body struct {
		Questions []Question `json:"questions"`
	}
	if err := s.client.GetJSON(ctx, s.questionsPath, languageQuery(language), &body); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(body.Questions) == 0 {
		return nil, errors.New("load questions: backend returned no questions")
	}
	return body.Questions, nil
}

func (s *RemoteSource) Recommend(ctx context.Context, language string, answers []string) (Result, error) {
	in := struct {
		Answers []string `json:"answers"`
	}{Answers: answers}

	var res Result
	if err := s.client.PostJSON(ctx, s.recommendPath, languageQuery(language), in, &res); err != nil {
		return Result{}, fmt.Errorf("recommend: %w", err)
	}
	return res.normalized(), nil
}

func languageQuery(language string) url.Values {
	if language == "" {
		return nil
	}
	return url.Values{"language": {language}}
}
