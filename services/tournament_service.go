package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"debate-tab-system/draw"
	"debate-tab-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// TournamentService registers tournaments, teams, judges and rounds.
type TournamentService struct {
	DB *gorm.DB
}

func NewTournamentService(db *gorm.DB) *TournamentService {
	return &TournamentService{DB: db}
}

func (s *TournamentService) CreateTournament(c *fiber.Ctx) error {
	var req struct {
		Name   string `json:"name"`
		Format string `json:"format"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	if req.Format == "" {
		req.Format = "bp"
	}

	id := uuid.NewString()
	t := models.Tournament{
		ID:     id,
		Name:   req.Name,
		Slug:   slug.Make(req.Name) + "-" + id[:8],
		Format: req.Format,
	}
	if err := s.DB.Create(&t).Error; err != nil {
		log.Printf("DB Error creating tournament: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create tournament"})
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (s *TournamentService) GetTournamentByID(c *fiber.Ctx) error {
	var t models.Tournament
	err := s.DB.Preload("Rounds", func(db *gorm.DB) *gorm.DB {
		return db.Order("number ASC")
	}).First(&t, "id = ?", c.Params("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	s.DB.Model(&models.Team{}).Where("tournament_id = ?", t.ID).Count(&t.TeamCount)
	s.DB.Model(&models.Judge{}).Where("tournament_id = ?", t.ID).Count(&t.JudgeCount)
	return c.JSON(t)
}

type teamRequest struct {
	Name            string   `json:"name"`
	Institution     string   `json:"institution"`
	Speakers        []string `json:"speakers"`
	ExperienceLevel string   `json:"experience_level"`
}

func (r *teamRequest) validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	var speakers []string
	for _, sp := range r.Speakers {
		if sp = strings.TrimSpace(sp); sp != "" {
			speakers = append(speakers, sp)
		}
	}
	if len(speakers) < 2 {
		return fmt.Errorf("a team needs at least 2 speakers")
	}
	r.Speakers = speakers
	return validateLevel(&r.ExperienceLevel)
}

func validateLevel(level *string) error {
	if *level == "" {
		*level = string(draw.Open)
	}
	*level = strings.ToLower(strings.TrimSpace(*level))
	if !draw.ExperienceLevel(*level).Valid() {
		return fmt.Errorf("experience_level must be one of novice, intermediate, open, pro")
	}
	return nil
}

func (s *TournamentService) CreateTeam(c *fiber.Ctx) error {
	tournamentID := c.Params("id")
	if err := s.requireTournament(tournamentID); err != nil {
		return tournamentError(c, err)
	}

	var req teamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if err := req.validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	team := models.Team{
		ID:              uuid.NewString(),
		TournamentID:    tournamentID,
		Name:            req.Name,
		Institution:     strings.TrimSpace(req.Institution),
		Speakers:        req.Speakers,
		ExperienceLevel: req.ExperienceLevel,
	}
	if err := s.DB.Create(&team).Error; err != nil {
		log.Printf("DB Error creating team: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create team"})
	}
	return c.Status(fiber.StatusCreated).JSON(team)
}

func (s *TournamentService) ListTeams(c *fiber.Ctx) error {
	var teams []models.Team
	if err := s.DB.Where("tournament_id = ?", c.Params("id")).Order("created_at ASC, id ASC").Find(&teams).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(fiber.Map{"teams": teams, "count": len(teams)})
}

func (s *TournamentService) DeleteTeam(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.Team{}, "id = ?", c.Params("team_id"))
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete team"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "team not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *TournamentService) CreateJudge(c *fiber.Ctx) error {
	tournamentID := c.Params("id")
	if err := s.requireTournament(tournamentID); err != nil {
		return tournamentError(c, err)
	}

	var req struct {
		Name            string `json:"name"`
		Institution     string `json:"institution"`
		ExperienceLevel string `json:"experience_level"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.Name = strings.TrimSpace(req.Name); req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	if err := validateLevel(&req.ExperienceLevel); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	judge := models.Judge{
		ID:              uuid.NewString(),
		TournamentID:    tournamentID,
		Name:            req.Name,
		Institution:     strings.TrimSpace(req.Institution),
		ExperienceLevel: req.ExperienceLevel,
	}
	if err := s.DB.Create(&judge).Error; err != nil {
		log.Printf("DB Error creating judge: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create judge"})
	}
	return c.Status(fiber.StatusCreated).JSON(judge)
}

func (s *TournamentService) ListJudges(c *fiber.Ctx) error {
	var judges []models.Judge
	if err := s.DB.Where("tournament_id = ?", c.Params("id")).Order("created_at ASC, id ASC").Find(&judges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(fiber.Map{"judges": judges, "count": len(judges)})
}

func (s *TournamentService) DeleteJudge(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.Judge{}, "id = ?", c.Params("judge_id"))
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete judge"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "judge not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateRound adds the next round; number defaults to one past the highest.
func (s *TournamentService) CreateRound(c *fiber.Ctx) error {
	tournamentID := c.Params("id")
	if err := s.requireTournament(tournamentID); err != nil {
		return tournamentError(c, err)
	}

	var req struct {
		Number int    `json:"number"`
		Name   string `json:"name"`
		Motion string `json:"motion"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.Number < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "number must be positive"})
	}
	if req.Number == 0 {
		var last int
		s.DB.Model(&models.Round{}).Where("tournament_id = ?", tournamentID).Select("COALESCE(MAX(number), 0)").Scan(&last)
		req.Number = last + 1
	}
	if req.Name == "" {
		req.Name = fmt.Sprintf("Round %d", req.Number)
	}

	round := models.Round{
		ID:           uuid.NewString(),
		TournamentID: tournamentID,
		Number:       req.Number,
		Name:         req.Name,
		Motion:       req.Motion,
		DrawStatus:   models.DrawStatusNone,
	}
	if err := s.DB.Create(&round).Error; err != nil {
		log.Printf("DB Error creating round: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create round"})
	}
	return c.Status(fiber.StatusCreated).JSON(round)
}

func (s *TournamentService) ListRounds(c *fiber.Ctx) error {
	var rounds []models.Round
	if err := s.DB.Where("tournament_id = ?", c.Params("id")).Order("number ASC").Find(&rounds).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(fiber.Map{"rounds": rounds, "count": len(rounds)})
}

func (s *TournamentService) requireTournament(id string) error {
	var count int64
	if err := s.DB.Model(&models.Tournament{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func tournamentError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tournament not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
}
