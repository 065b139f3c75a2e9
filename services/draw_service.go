package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"

	"debate-tab-system/draw"
	"debate-tab-system/metrics"
	"debate-tab-system/models"
	"debate-tab-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInvalidTransition is returned when a round's draw is not in a state
	// that allows the requested operation.
	ErrInvalidTransition = errors.New("invalid draw status transition")
	// ErrUnknownTeam is returned when a draw row references a team that is
	// neither registered for the tournament nor a flagged swing team.
	ErrUnknownTeam = errors.New("draw references unknown team")
	// ErrNotReleased hides draws that are not public yet.
	ErrNotReleased = errors.New("draw not released")
	// ErrValidation marks malformed request input.
	ErrValidation = errors.New("invalid request")
)

// DrawPublisher stores a released draw snapshot and returns its public URL.
type DrawPublisher interface {
	PublishDraw(ctx context.Context, key string, body []byte) (string, error)
}

// DrawService runs the draw engine against stored tournaments and owns the
// round draw lifecycle.
type DrawService struct {
	DB        *gorm.DB
	Config    draw.Config
	Publisher DrawPublisher // nil disables publishing
	Metrics   *metrics.Collector

	locks sync.Map // tournament id -> *sync.Mutex
	now   func() time.Time
}

func NewDrawService(db *gorm.DB, cfg draw.Config, publisher DrawPublisher, m *metrics.Collector) *DrawService {
	return &DrawService{DB: db, Config: cfg, Publisher: publisher, Metrics: m, now: time.Now}
}

// DrawRequest is the body of a generate or regenerate call.
type DrawRequest struct {
	Rooms                   []string `json:"rooms"`
	Method                  string   `json:"method"`
	AvoidInstitutionClashes bool     `json:"avoid_institution_clashes"`
	BalanceExperience       bool     `json:"balance_experience"`
	Seed                    *uint64  `json:"seed,omitempty"`
}

// DrawResult is what every draw endpoint returns.
type DrawResult struct {
	RoundID      string          `json:"round_id"`
	TournamentID string          `json:"tournament_id"`
	Status       string          `json:"status"`
	Method       string          `json:"method,omitempty"`
	Rooms        []draw.DrawRoom `json:"rooms"`
	Unplaced     []draw.Team     `json:"unplaced,omitempty"`
	Warnings     []string        `json:"warnings,omitempty"`
	ReleaseAt    *time.Time      `json:"release_at,omitempty"`
	ReleasedAt   *time.Time      `json:"released_at,omitempty"`
	SnapshotURL  string          `json:"snapshot_url,omitempty"`
}

func (s *DrawService) lock(tournamentID string) func() {
	v, _ := s.locks.LoadOrStore(tournamentID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *DrawService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Generate creates a draft draw for the round, replacing any existing draft.
func (s *DrawService) Generate(ctx context.Context, roundID string, req DrawRequest) (*DrawResult, error) {
	return s.generate(ctx, roundID, req, false)
}

// Regenerate discards the current draft and draws the round again. Room
// labels default to the ones of the discarded draft.
func (s *DrawService) Regenerate(ctx context.Context, roundID string, req DrawRequest) (*DrawResult, error) {
	return s.generate(ctx, roundID, req, true)
}

func (s *DrawService) generate(ctx context.Context, roundID string, req DrawRequest, regenerate bool) (*DrawResult, error) {
	round, err := s.findRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	unlock := s.lock(round.TournamentID)
	defer unlock()

	// re-read under the lock
	if round, err = s.findRound(ctx, roundID); err != nil {
		return nil, err
	}
	switch {
	case regenerate && round.DrawStatus != models.DrawStatusDraft:
		return nil, fmt.Errorf("%w: regenerate needs a draft draw, round is %q", ErrInvalidTransition, round.DrawStatus)
	case !regenerate && round.DrawStatus != models.DrawStatusNone && round.DrawStatus != models.DrawStatusDraft:
		return nil, fmt.Errorf("%w: round draw is already %q", ErrInvalidTransition, round.DrawStatus)
	}

	method, err := draw.ParseMethod(req.Method)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	rooms := req.Rooms
	if len(rooms) == 0 && regenerate {
		if rooms, err = s.draftRoomLabels(ctx, round.ID); err != nil {
			return nil, err
		}
	}

	teams, judges, err := s.loadEntrants(ctx, round.TournamentID)
	if err != nil {
		return nil, err
	}
	g, err := s.newGenerator(ctx, round.TournamentID, req.Seed)
	if err != nil {
		return nil, err
	}

	in := draw.Input{
		Teams:  teams,
		Judges: judges,
		Rooms:  rooms,
		Options: draw.Options{
			Method:                  method,
			AvoidInstitutionClashes: req.AvoidInstitutionClashes,
			BalanceExperience:       req.BalanceExperience,
		},
	}
	start := time.Now()
	var draws []draw.DrawRoom
	if regenerate {
		draws, err = g.Regenerate(in)
	} else {
		draws, err = g.Generate(in)
	}
	s.Metrics.ObserveGeneration(method, draws, time.Since(start), err)
	if err != nil {
		log.Printf("[DrawService] Draw for round %s rejected: %v", round.ID, err)
		return nil, err
	}

	rows := draw.ToDatabaseRows(draws, round.ID, round.TournamentID)
	if err := validateRows(rows, teams); err != nil {
		return nil, err
	}

	records := make([]models.Draw, len(rows))
	for i, row := range rows {
		records[i] = drawRecord(row, i, draws[i].Cost)
	}
	if err := s.replaceDraws(ctx, round.ID, records, string(method)); err != nil {
		return nil, err
	}

	result := &DrawResult{
		RoundID:      round.ID,
		TournamentID: round.TournamentID,
		Status:       models.DrawStatusDraft,
		Method:       string(method),
		Rooms:        draws,
		Unplaced:     draw.Unplaced(teams, draws),
	}
	result.Warnings = drawWarnings(draws, result.Unplaced)
	for _, w := range result.Warnings {
		log.Printf("⚠️  [DrawService] Round %s: %s", round.ID, w)
	}
	log.Printf("✅ [DrawService] Draft draw for round %s: %d rooms (%s)", round.ID, len(draws), method)
	return result, nil
}

// replaceDraws swaps the round's rows for records and marks the round as
// draft in one transaction.
func (s *DrawService) replaceDraws(ctx context.Context, roundID string, records []models.Draw, method string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("round_id = ?", roundID).Delete(&models.Draw{}).Error; err != nil {
			return fmt.Errorf("delete previous draw: %w", err)
		}
		if len(records) > 0 {
			if err := tx.Create(&records).Error; err != nil {
				return fmt.Errorf("insert draw: %w", err)
			}
		}
		err := tx.Model(&models.Round{}).Where("id = ?", roundID).Updates(map[string]interface{}{
			"draw_status":  models.DrawStatusDraft,
			"draw_method":  method,
			"confirmed_at": nil,
			"release_at":   nil,
		}).Error
		if err != nil {
			return fmt.Errorf("update round: %w", err)
		}
		return nil
	})
}

// Draw returns the stored draw of a round.
func (s *DrawService) Draw(ctx context.Context, roundID string) (*DrawResult, error) {
	round, err := s.findRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.storedRooms(ctx, round)
	if err != nil {
		return nil, err
	}
	return resultFor(round, rooms), nil
}

// PublicDraw returns the draw only once it has been released.
func (s *DrawService) PublicDraw(ctx context.Context, roundID string) (*DrawResult, error) {
	round, err := s.findRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round.DrawStatus != models.DrawStatusReleased {
		return nil, ErrNotReleased
	}
	rooms, err := s.storedRooms(ctx, round)
	if err != nil {
		return nil, err
	}
	for i := range rooms {
		rooms[i].Cost = 0
	}
	res := resultFor(round, rooms)
	res.Method = ""
	return res, nil
}

// Confirm freezes the draft draw and records it into the tournament's
// position histories and pairing memo. It runs once per round.
func (s *DrawService) Confirm(ctx context.Context, roundID string) (*DrawResult, error) {
	round, err := s.findRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	unlock := s.lock(round.TournamentID)
	defer unlock()

	if round, err = s.findRound(ctx, roundID); err != nil {
		return nil, err
	}
	if round.DrawStatus != models.DrawStatusDraft {
		return nil, fmt.Errorf("%w: confirm needs a draft draw, round is %q", ErrInvalidTransition, round.DrawStatus)
	}
	rooms, err := s.storedRooms(ctx, round)
	if err != nil {
		return nil, err
	}

	histories, err := s.loadHistories(ctx, round.TournamentID)
	if err != nil {
		return nil, err
	}
	g, err := draw.NewGenerator(s.Config, draw.WithHistories(histories))
	if err != nil {
		return nil, err
	}
	g.UpdateHistories(rooms)

	var records []models.TeamPositionHistory
	for _, d := range rooms {
		for _, t := range d.Teams {
			if t.Swing {
				continue
			}
			h := g.History(t.ID)
			records = append(records, models.TeamPositionHistory{
				TournamentID: round.TournamentID,
				TeamID:       t.ID,
				OG:           h.OG,
				OO:           h.OO,
				CG:           h.CG,
				CO:           h.CO,
			})
		}
	}
	var seen []models.SeenPairing
	for _, k := range draw.PairingKeys(rooms) {
		seen = append(seen, models.SeenPairing{
			TournamentID: round.TournamentID,
			Key:          pairingKeyString(k),
			RoundID:      round.ID,
		})
	}

	now := s.clock()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(records) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "tournament_id"}, {Name: "team_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"og", "oo", "cg", "co", "updated_at"}),
			}).Create(&records).Error
			if err != nil {
				return fmt.Errorf("save position histories: %w", err)
			}
		}
		if len(seen) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seen).Error; err != nil {
				return fmt.Errorf("save pairing memo: %w", err)
			}
		}
		if err := tx.Model(&models.Draw{}).Where("round_id = ?", round.ID).Update("status", "confirmed").Error; err != nil {
			return err
		}
		return tx.Model(&models.Round{}).Where("id = ?", round.ID).Updates(map[string]interface{}{
			"draw_status":  models.DrawStatusConfirmed,
			"confirmed_at": &now,
		}).Error
	})
	if err != nil {
		log.Printf("[DrawService] Failed to confirm round %s: %v", round.ID, err)
		return nil, err
	}

	round.DrawStatus = models.DrawStatusConfirmed
	round.ConfirmedAt = &now
	log.Printf("✅ [DrawService] Confirmed draw for round %s", round.ID)
	return resultFor(round, rooms), nil
}

// Release publishes a confirmed draw. A releaseAt in the future schedules the
// release for the scheduler instead.
func (s *DrawService) Release(ctx context.Context, roundID string, releaseAt *time.Time, trigger string) (*DrawResult, error) {
	round, err := s.findRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	unlock := s.lock(round.TournamentID)
	defer unlock()

	if round, err = s.findRound(ctx, roundID); err != nil {
		return nil, err
	}
	if round.DrawStatus != models.DrawStatusConfirmed {
		return nil, fmt.Errorf("%w: release needs a confirmed draw, round is %q", ErrInvalidTransition, round.DrawStatus)
	}
	rooms, err := s.storedRooms(ctx, round)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	if releaseAt != nil && releaseAt.After(now) {
		at := releaseAt.UTC()
		if err := s.DB.WithContext(ctx).Model(&models.Round{}).Where("id = ?", round.ID).Update("release_at", &at).Error; err != nil {
			return nil, err
		}
		round.ReleaseAt = &at
		log.Printf("🕒 [DrawService] Round %s draw scheduled for release at %s", round.ID, at.Format(time.RFC3339))
		return resultFor(round, rooms), nil
	}

	var snapshotURL string
	if s.Publisher != nil {
		if snapshotURL, err = s.publish(ctx, round, rooms); err != nil {
			log.Printf("[DrawService] Failed to publish snapshot for round %s: %v", round.ID, err)
			return nil, err
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Draw{}).Where("round_id = ?", round.ID).Update("status", "released").Error; err != nil {
			return err
		}
		return tx.Model(&models.Round{}).Where("id = ?", round.ID).Updates(map[string]interface{}{
			"draw_status":  models.DrawStatusReleased,
			"released_at":  &now,
			"release_at":   nil,
			"snapshot_url": snapshotURL,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	s.Metrics.ObserveRelease(trigger)

	round.DrawStatus = models.DrawStatusReleased
	round.ReleasedAt = &now
	round.ReleaseAt = nil
	round.SnapshotURL = snapshotURL
	log.Printf("✅ [DrawService] Released draw for round %s (%s)", round.ID, trigger)
	return resultFor(round, rooms), nil
}

// ReleaseDue releases every confirmed round whose scheduled time has passed.
func (s *DrawService) ReleaseDue(ctx context.Context) (int, error) {
	var rounds []models.Round
	err := s.DB.WithContext(ctx).
		Where("draw_status = ? AND release_at IS NOT NULL AND release_at <= ?", models.DrawStatusConfirmed, s.clock().UTC()).
		Order("release_at ASC").
		Find(&rounds).Error
	if err != nil {
		return 0, err
	}

	released := 0
	for _, r := range rounds {
		if _, err := s.Release(ctx, r.ID, nil, "scheduled"); err != nil {
			log.Printf("[Scheduler] Failed to release round %s: %v", r.ID, err)
			continue
		}
		released++
	}
	return released, nil
}

type drawSnapshot struct {
	Tournament string          `json:"tournament"`
	Round      int             `json:"round"`
	RoundName  string          `json:"round_name,omitempty"`
	Motion     string          `json:"motion,omitempty"`
	Rooms      []draw.DrawRoom `json:"rooms"`
}

func (s *DrawService) publish(ctx context.Context, round *models.Round, rooms []draw.DrawRoom) (string, error) {
	var t models.Tournament
	if err := s.DB.WithContext(ctx).First(&t, "id = ?", round.TournamentID).Error; err != nil {
		return "", err
	}

	public := make([]draw.DrawRoom, len(rooms))
	copy(public, rooms)
	for i := range public {
		public[i].Cost = 0
	}
	body, err := json.Marshal(drawSnapshot{
		Tournament: t.Name,
		Round:      round.Number,
		RoundName:  round.Name,
		Motion:     round.Motion,
		Rooms:      public,
	})
	if err != nil {
		return "", err
	}
	return s.Publisher.PublishDraw(ctx, utils.DrawSnapshotKey(t.Name, round.Number, round.Name), body)
}

func (s *DrawService) findRound(ctx context.Context, roundID string) (*models.Round, error) {
	var round models.Round
	if err := s.DB.WithContext(ctx).First(&round, "id = ?", roundID).Error; err != nil {
		return nil, err
	}
	if round.DrawStatus == "" {
		round.DrawStatus = models.DrawStatusNone
	}
	return &round, nil
}

func (s *DrawService) loadEntrants(ctx context.Context, tournamentID string) ([]draw.Team, []draw.Judge, error) {
	var teams []models.Team
	if err := s.DB.WithContext(ctx).Where("tournament_id = ?", tournamentID).Order("created_at ASC, id ASC").Find(&teams).Error; err != nil {
		return nil, nil, err
	}
	var judges []models.Judge
	if err := s.DB.WithContext(ctx).Where("tournament_id = ?", tournamentID).Order("created_at ASC, id ASC").Find(&judges).Error; err != nil {
		return nil, nil, err
	}

	outTeams := make([]draw.Team, len(teams))
	for i, t := range teams {
		outTeams[i] = engineTeam(t)
	}
	outJudges := make([]draw.Judge, len(judges))
	for i, j := range judges {
		outJudges[i] = engineJudge(j)
	}
	return outTeams, outJudges, nil
}

func (s *DrawService) loadHistories(ctx context.Context, tournamentID string) (map[string]draw.PositionHistory, error) {
	var rows []models.TeamPositionHistory
	if err := s.DB.WithContext(ctx).Where("tournament_id = ?", tournamentID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]draw.PositionHistory, len(rows))
	for _, r := range rows {
		out[r.TeamID] = draw.PositionHistory{OG: r.OG, OO: r.OO, CG: r.CG, CO: r.CO}
	}
	return out, nil
}

func (s *DrawService) loadSeenPairings(ctx context.Context, tournamentID string) ([]uint64, error) {
	var rows []models.SeenPairing
	if err := s.DB.WithContext(ctx).Where("tournament_id = ?", tournamentID).Find(&rows).Error; err != nil {
		return nil, err
	}
	keys := make([]uint64, 0, len(rows))
	for _, r := range rows {
		k, err := strconv.ParseUint(r.Key, 16, 64)
		if err != nil {
			log.Printf("[DrawService] Skipping malformed pairing key %q: %v", r.Key, err)
			continue
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func (s *DrawService) newGenerator(ctx context.Context, tournamentID string, seed *uint64) (*draw.Generator, error) {
	histories, err := s.loadHistories(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	seen, err := s.loadSeenPairings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	opts := []draw.GeneratorOption{draw.WithHistories(histories), draw.WithSeenPairings(seen)}
	if seed != nil {
		opts = append(opts, draw.WithSeed(*seed))
	}
	return draw.NewGenerator(s.Config, opts...)
}

func (s *DrawService) draftRoomLabels(ctx context.Context, roundID string) ([]string, error) {
	var labels []string
	err := s.DB.WithContext(ctx).Model(&models.Draw{}).
		Where("round_id = ?", roundID).
		Order("position ASC").
		Pluck("room", &labels).Error
	return labels, err
}

// storedRooms rebuilds the engine view of a round's rows.
func (s *DrawService) storedRooms(ctx context.Context, round *models.Round) ([]draw.DrawRoom, error) {
	var rows []models.Draw
	if err := s.DB.WithContext(ctx).Where("round_id = ?", round.ID).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	teams, judges, err := s.loadEntrants(ctx, round.TournamentID)
	if err != nil {
		return nil, err
	}
	teamByID := make(map[string]draw.Team, len(teams))
	for _, t := range teams {
		teamByID[t.ID] = t
	}
	judgeByID := make(map[string]draw.Judge, len(judges))
	for _, j := range judges {
		judgeByID[j.ID] = j
	}

	rooms := make([]draw.DrawRoom, len(rows))
	for i, row := range rows {
		ids := [4]string{row.GovTeamID, row.OppTeamID, row.CGTeamID, row.COTeamID}
		var slots draw.Slots
		for p, id := range ids {
			if t, ok := teamByID[id]; ok {
				slots[p] = t
			} else if t, ok := draw.SwingTeamFromID(id); ok {
				slots[p] = t
			} else {
				// team deleted after the draw was made
				slots[p] = draw.Team{ID: id}
			}
		}
		room := draw.DrawRoom{
			ID:    fmt.Sprintf("room-%d", row.Position+1),
			Room:  row.Room,
			Teams: slots,
			Cost:  row.Cost,
		}
		if row.JudgeID != nil {
			j, ok := judgeByID[*row.JudgeID]
			if !ok {
				j = draw.Judge{ID: *row.JudgeID}
				if row.Judge != nil {
					j.Name = *row.Judge
				}
			}
			room.Judge = &j
		}
		rooms[i] = room
	}
	return rooms, nil
}

func resultFor(round *models.Round, rooms []draw.DrawRoom) *DrawResult {
	return &DrawResult{
		RoundID:      round.ID,
		TournamentID: round.TournamentID,
		Status:       round.DrawStatus,
		Method:       round.DrawMethod,
		Rooms:        rooms,
		Warnings:     drawWarnings(rooms, nil),
		ReleaseAt:    round.ReleaseAt,
		ReleasedAt:   round.ReleasedAt,
		SnapshotURL:  round.SnapshotURL,
	}
}

// validateRows rejects rows whose team ids are neither registered teams nor
// flagged swing seats.
func validateRows(rows []draw.PersistableDraw, teams []draw.Team) error {
	known := make(map[string]struct{}, len(teams))
	for _, t := range teams {
		known[t.ID] = struct{}{}
	}
	for _, row := range rows {
		for _, p := range draw.Positions {
			id := row.TeamID(p)
			if row.IsSwing(p) {
				if !draw.IsSwingID(id) {
					return fmt.Errorf("%w: swing seat %s in %s holds %q", ErrUnknownTeam, p, row.Room, id)
				}
				continue
			}
			if _, ok := known[id]; !ok {
				return fmt.Errorf("%w: %q in %s", ErrUnknownTeam, id, row.Room)
			}
		}
	}
	return nil
}

func drawRecord(row draw.PersistableDraw, position int, cost float64) models.Draw {
	swing := make([]string, len(row.SwingPositions))
	for i, p := range row.SwingPositions {
		swing[i] = p.String()
	}
	return models.Draw{
		ID:             uuid.NewString(),
		RoundID:        row.RoundID,
		TournamentID:   row.TournamentID,
		Position:       position,
		Room:           row.Room,
		GovTeamID:      row.GovTeamID,
		OppTeamID:      row.OppTeamID,
		CGTeamID:       row.CGTeamID,
		COTeamID:       row.COTeamID,
		JudgeID:        row.JudgeID,
		Judge:          row.Judge,
		Status:         row.Status,
		GovScore:       row.GovScore,
		OppScore:       row.OppScore,
		SwingPositions: swing,
		Cost:           cost,
	}
}

func drawWarnings(rooms []draw.DrawRoom, unplaced []draw.Team) []string {
	var warnings []string
	swings := 0
	for _, d := range rooms {
		swings += d.SwingCount()
	}
	if swings > 0 {
		warnings = append(warnings, fmt.Sprintf("%d swing team(s) added to fill rooms", swings))
	}
	if len(unplaced) > 0 {
		names := make([]string, len(unplaced))
		for i, t := range unplaced {
			names[i] = t.Name
		}
		sort.Strings(names)
		warnings = append(warnings, fmt.Sprintf("%d team(s) without a room: %v", len(unplaced), names))
	}
	return warnings
}

func engineTeam(t models.Team) draw.Team {
	return draw.Team{
		ID:              t.ID,
		TournamentID:    t.TournamentID,
		Name:            t.Name,
		Institution:     t.Institution,
		Speakers:        t.Speakers,
		ExperienceLevel: draw.ExperienceLevel(t.ExperienceLevel),
	}
}

func engineJudge(j models.Judge) draw.Judge {
	return draw.Judge{
		ID:              j.ID,
		TournamentID:    j.TournamentID,
		Name:            j.Name,
		Institution:     j.Institution,
		ExperienceLevel: draw.ExperienceLevel(j.ExperienceLevel),
	}
}

func pairingKeyString(k uint64) string {
	return strconv.FormatUint(k, 16)
}
