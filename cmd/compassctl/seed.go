package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"career-compass/internal/domain"
	"career-compass/internal/logger"
	"career-compass/internal/repository"
	"career-compass/internal/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const defaultSeedFile = "configs/seed/catalog.yaml"

// seedFile is the layout of the catalog seed YAML.
type seedFile struct {
	Domains []seedDomain `yaml:"domains"`
	Careers []seedCareer `yaml:"careers"`
}

type seedDomain struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Skills      []seedSkill `yaml:"skills"`
}

type seedSkill struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Questions   []seedQuestion `yaml:"questions"`
}

type seedQuestion struct {
	Text        string   `yaml:"text"`
	Options     []string `yaml:"options"`
	Answer      string   `yaml:"answer"`
	Difficulty  string   `yaml:"difficulty"`
	Explanation string   `yaml:"explanation"`
}

type seedCareer struct {
	Title        string            `yaml:"title"`
	Description  string            `yaml:"description"`
	Requirements map[string]string `yaml:"requirements"` // skill name -> minimum level
}

// seedWriter is the subset of the repositories the seeder writes through.
type seedWriter interface {
	CreateDomain(ctx context.Context, d *domain.Domain) error
	CreateSkill(ctx context.Context, s *domain.Skill) error
	CreateQuestion(ctx context.Context, q *domain.Question) error
	CreateCareer(ctx context.Context, c *domain.Career) error
}

type seedSummary struct {
	Domains   int
	Skills    int
	Questions int
	Careers   int
	Failed    []string
}

func loadSeedFile(path string) (*seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return &file, nil
}

// seeder writes each domain in its own transaction; a failing domain is
// rolled back and reported while the others are kept. Careers are written
// last so their requirements can refer to skills by name.
type seeder struct {
	tm    domain.TransactionManager
	w     seedWriter
	newID func() string
	now   func() time.Time
}

func (s *seeder) apply(ctx context.Context, file *seedFile) (*seedSummary, error) {
	log := logger.Get()
	summary := &seedSummary{}
	skillIDs := make(map[string]string)

	for _, sd := range file.Domains {
		created := make(map[string]string)
		var skills, questions int
		err := s.tm.WithTransaction(ctx, func(txCtx context.Context) error {
			d := &domain.Domain{ID: s.newID(), Name: strings.TrimSpace(sd.Name), Description: sd.Description}
			if d.Name == "" {
				return domain.NewInvalidInputError("domain name is required")
			}
			if err := s.w.CreateDomain(txCtx, d); err != nil {
				return err
			}
			for _, ss := range sd.Skills {
				skill := &domain.Skill{ID: s.newID(), DomainID: d.ID, Name: strings.TrimSpace(ss.Name), Description: ss.Description}
				if skill.Name == "" {
					return domain.NewInvalidInputError("skill name is required").WithContext("domain", d.Name)
				}
				if err := s.w.CreateSkill(txCtx, skill); err != nil {
					return err
				}
				created[strings.ToLower(skill.Name)] = skill.ID
				skills++
				for i, sq := range ss.Questions {
					q := &domain.Question{
						ID:            s.newID(),
						SkillID:       skill.ID,
						Text:          sq.Text,
						Options:       sq.Options,
						CorrectOption: sq.Answer,
						Difficulty:    sq.Difficulty,
						Explanation:   sq.Explanation,
						Position:      i + 1,
						CreatedAt:     s.now(),
					}
					if err := q.Validate(); err != nil {
						return fmt.Errorf("skill %q question %d: %w", skill.Name, i+1, err)
					}
					if err := s.w.CreateQuestion(txCtx, q); err != nil {
						return err
					}
					questions++
				}
			}
			return nil
		})
		if err != nil {
			log.Error("Error seeding domain, transaction rolled back", zap.String("domain", sd.Name), zap.Error(err))
			summary.Failed = append(summary.Failed, sd.Name)
			continue
		}
		for name, id := range created {
			skillIDs[name] = id
		}
		summary.Domains++
		summary.Skills += skills
		summary.Questions += questions
		log.Info("Seeded domain", zap.String("domain", sd.Name), zap.Int("skills", skills), zap.Int("questions", questions))
	}

	for _, sc := range file.Careers {
		career, err := s.buildCareer(sc, skillIDs)
		if err == nil {
			err = s.tm.WithTransaction(ctx, func(txCtx context.Context) error {
				return s.w.CreateCareer(txCtx, career)
			})
		}
		if err != nil {
			log.Error("Error seeding career", zap.String("career", sc.Title), zap.Error(err))
			summary.Failed = append(summary.Failed, sc.Title)
			continue
		}
		summary.Careers++
	}

	if len(summary.Failed) > 0 {
		return summary, fmt.Errorf("%d seed entries failed: %s", len(summary.Failed), strings.Join(summary.Failed, ", "))
	}
	return summary, nil
}

func (s *seeder) buildCareer(sc seedCareer, skillIDs map[string]string) (*domain.Career, error) {
	title := strings.TrimSpace(sc.Title)
	if title == "" {
		return nil, domain.NewInvalidInputError("career title is required")
	}
	career := &domain.Career{ID: s.newID(), Title: title, Description: sc.Description}
	for skillName, rawLevel := range sc.Requirements {
		skillID, ok := skillIDs[strings.ToLower(strings.TrimSpace(skillName))]
		if !ok {
			return nil, domain.NewNotFoundError("unknown skill in career requirements").WithContext("skill", skillName)
		}
		level, err := domain.ParseLevel(rawLevel)
		if err != nil {
			return nil, err
		}
		career.Requirements = append(career.Requirements, domain.CareerRequirement{SkillID: skillID, MinLevel: level})
	}
	return career, nil
}

// seedRepositories joins the catalog, question and career repositories into
// one seedWriter.
type seedRepositories struct {
	*repository.CatalogRepository
	*repository.QuestionRepository
	*repository.CareerRepository
}

func newSeedCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load domains, skills, questions and careers from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := loadSeedFile(path)
			if err != nil {
				return err
			}
			s := &seeder{
				tm: repository.NewTransactionManagerAdapter(a.db),
				w: seedRepositories{
					CatalogRepository:  repository.NewCatalogRepository(a.db),
					QuestionRepository: repository.NewQuestionRepository(a.db),
					CareerRepository:   repository.NewCareerRepository(a.db),
				},
				newID: util.NewULID,
				now:   time.Now,
			}
			summary, err := s.apply(cmd.Context(), file)
			if summary != nil {
				logger.Get().Info("Seeding finished",
					zap.Int("domains", summary.Domains),
					zap.Int("skills", summary.Skills),
					zap.Int("questions", summary.Questions),
					zap.Int("careers", summary.Careers))
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", defaultSeedFile, "seed YAML file")
	return cmd
}
