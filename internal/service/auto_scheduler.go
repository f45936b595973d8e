package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Ghilbi/citcs-schedule-api/internal/dto"
	"github.com/Ghilbi/citcs-schedule-api/internal/models"
	"github.com/Ghilbi/citcs-schedule-api/pkg/config"
	appErrors "github.com/Ghilbi/citcs-schedule-api/pkg/errors"
)

type schedulerRoomLister interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type schedulerEntryWriter interface {
	BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, entries []models.ScheduleEntry) error
}

type schedulerTxProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// AutoSchedulerService places a section's pending offerings into
// non-conflicting (day pattern, time slot, room column) combinations under
// a soft-scored heuristic search.
type AutoSchedulerService struct {
	contexts  *ScheduleContextBuilder
	offerings contextOfferingLister
	courses   contextCourseLister
	rooms     schedulerRoomLister
	entries   schedulerEntryWriter
	tx        schedulerTxProvider
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       config.SchedulerConfig

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewAutoSchedulerService wires scheduler dependencies.
func NewAutoSchedulerService(
	contexts *ScheduleContextBuilder,
	courses contextCourseLister,
	offerings contextOfferingLister,
	rooms schedulerRoomLister,
	entries schedulerEntryWriter,
	tx schedulerTxProvider,
	validate *validator.Validate,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg config.SchedulerConfig,
) *AutoSchedulerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	applyWeightDefaults(&cfg)
	return &AutoSchedulerService{
		contexts:  contexts,
		courses:   courses,
		offerings: offerings,
		rooms:     rooms,
		entries:   entries,
		tx:        tx,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		locks:     make(map[string]*sync.Mutex),
	}
}

func applyWeightDefaults(cfg *config.SchedulerConfig) {
	w := &cfg.Weights
	if w.Gap == 0 {
		w.Gap = 3
	}
	if w.Balance == 0 {
		w.Balance = 2
	}
	if w.Adjacency == 0 {
		w.Adjacency = -2
	}
	if w.RoomUsage == 0 {
		w.RoomUsage = 0.2
	}
	if w.RarePlacement == 0 {
		w.RarePlacement = 35
	}
	if w.VeryRarePlacement == 0 {
		w.VeryRarePlacement = 70
	}
	if w.RelaxedConsecutive == 0 {
		w.RelaxedConsecutive = 12
	}
	if w.LabInBothExtra == 0 {
		w.LabInBothExtra = 15
	}
	if w.MostRelaxedPass == 0 {
		w.MostRelaxedPass = 36
	}
	if cfg.MaxPairEvaluations <= 0 {
		cfg.MaxPairEvaluations = 20000
	}
}

// Run schedules every pending offering of the requested section. Each run
// holds a per-trimester lock: the working context mutates in memory while
// commits land incrementally, so concurrent runs against the same
// trimester could double-book a room column.
func (s *AutoSchedulerService) Run(ctx context.Context, req dto.AutoScheduleRequest) (*dto.AutoScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid auto-schedule payload")
	}

	lock := s.trimesterLock(req.Trimester)
	lock.Lock()
	defer lock.Unlock()

	started := time.Now()

	wctx, err := s.contexts.Build(ctx, Scope{Trimester: req.Trimester, YearLevel: req.YearLevel, Section: req.Section})
	if err != nil {
		return nil, err
	}

	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	topo := BuildRoomTopology(rooms)
	cols := topo.GroupColumns(req.RoomGroup)
	if len(cols) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("no room columns available in group %s", req.RoomGroup))
	}
	roomIDs := make(map[string]string, len(rooms))
	for _, room := range rooms {
		roomIDs[room.Name] = room.ID
	}

	tasks, err := s.buildTasks(wctx, req.Section, req.Trimester)
	if err != nil {
		return nil, err
	}

	seed := s.cfg.Seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	resp := &dto.AutoScheduleResponse{Unscheduled: make([]dto.UnscheduledItem, 0)}

	for _, task := range tasks {
		if task.paired() {
			placement, ok := s.findBestPairedAssignment(wctx, topo, req.Section, task, cols, rng)
			if !ok {
				resp.Unscheduled = append(resp.Unscheduled,
					dto.UnscheduledItem{Subject: task.course.Subject, UnitType: models.UnitTypeLec, Reason: "no feasible paired placement"},
					dto.UnscheduledItem{Subject: task.course.Subject, UnitType: models.UnitTypeLab, Reason: "no feasible paired placement"},
				)
				continue
			}
			entries := append(
				s.buildEntries(task.course, *task.lab, placement.Day, placement.LabSlot, placement.LabCol, topo, roomIDs),
				s.buildEntries(task.course, *task.lec, placement.Day, placement.LecSlot, placement.LecCol, topo, roomIDs)...,
			)
			if err := s.commit(ctx, entries); err != nil {
				return nil, err
			}
			wctx.Append(entries...)
			resp.Entries = append(resp.Entries, entries...)
			resp.ScheduledCount += 2
		} else {
			placement, ok := s.findBestAssignment(wctx, topo, req.Section, task.course, *task.single, cols, rng)
			if !ok {
				resp.Unscheduled = append(resp.Unscheduled, dto.UnscheduledItem{
					Subject:  task.course.Subject,
					UnitType: task.single.Type,
					Reason:   "no feasible placement",
				})
				continue
			}
			entries := s.buildEntries(task.course, *task.single, placement.Day, placement.Slot, placement.Col, topo, roomIDs)
			if err := s.commit(ctx, entries); err != nil {
				return nil, err
			}
			wctx.Append(entries...)
			resp.Entries = append(resp.Entries, entries...)
			resp.ScheduledCount++
		}
	}

	resp.UnscheduledCount = len(resp.Unscheduled)
	resp.Summary = fmt.Sprintf("Scheduled %d session(s) for %s; %d could not be placed", resp.ScheduledCount, req.Section, resp.UnscheduledCount)

	if s.metrics != nil {
		s.metrics.ObserveSchedulerRun(time.Since(started), resp.ScheduledCount, resp.UnscheduledCount)
	}
	s.logger.Info("auto-scheduler run finished",
		zap.String("section", req.Section),
		zap.String("trimester", req.Trimester),
		zap.Int("scheduled", resp.ScheduledCount),
		zap.Int("unscheduled", resp.UnscheduledCount),
		zap.Int64("seed", seed),
	)

	return resp, nil
}

func (s *AutoSchedulerService) trimesterLock(trimester string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lock, ok := s.locks[trimester]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	s.locks[trimester] = lock
	return lock
}

// --- Task construction ---

type scheduleTask struct {
	course models.Course
	lec    *models.CourseOffering
	lab    *models.CourseOffering
	single *models.CourseOffering
}

func (t scheduleTask) paired() bool {
	return t.lec != nil && t.lab != nil
}

func (t scheduleTask) subject() string {
	return t.course.Subject
}

// buildTasks computes the set-difference between the section's offerings
// and the section-level entries already committed, then pairs Lec/Lab
// siblings into single tasks.
func (s *AutoSchedulerService) buildTasks(wctx *ScheduleContext, section, trimester string) ([]scheduleTask, error) {
	var sectionOfferings []models.CourseOffering
	for _, offering := range wctx.Offerings {
		if offering.Section == section && offering.Trimester == trimester {
			sectionOfferings = append(sectionOfferings, offering)
		}
	}
	if len(sectionOfferings) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("no course offerings found for section %s", section))
	}

	scheduled := make(map[string]bool)
	for _, entry := range wctx.SectionEntries {
		for _, sec := range entry.Sections() {
			if sec == section {
				scheduled[entry.CourseID+"|"+string(entry.UnitType)] = true
			}
		}
	}

	var pending []models.CourseOffering
	for _, offering := range sectionOfferings {
		if !scheduled[offering.CourseID+"|"+string(offering.Type)] {
			pending = append(pending, offering)
		}
	}
	if len(pending) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("all offerings for section %s are already scheduled", section))
	}

	byCourse := make(map[string][]models.CourseOffering)
	for _, offering := range pending {
		byCourse[offering.CourseID] = append(byCourse[offering.CourseID], offering)
	}

	var tasks []scheduleTask
	for courseID, group := range byCourse {
		course, ok := wctx.Courses[courseID]
		if !ok {
			// offering referencing a deleted course, skipped like any
			// other orphaned row
			continue
		}
		task := scheduleTask{course: course}
		for i := range group {
			switch group[i].Type {
			case models.UnitTypeLec:
				task.lec = &group[i]
			case models.UnitTypeLab:
				task.lab = &group[i]
			}
		}
		if course.UnitCategory == models.UnitCategoryLecLab && task.paired() {
			tasks = append(tasks, task)
			continue
		}
		for i := range group {
			tasks = append(tasks, scheduleTask{course: course, single: &group[i]})
		}
	}

	// paired tasks first (the Lab half is more room-constrained), then
	// alphabetical by subject
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].paired() != tasks[j].paired() {
			return tasks[i].paired()
		}
		return tasks[i].subject() < tasks[j].subject()
	})

	return tasks, nil
}

// --- Room compatibility ---

type placementRole int

const (
	roleLab placementRole = iota
	roleLecOfLecLab
	roleLecLabGeneric
	rolePureLec
)

func placementRoleFor(course models.Course, unitType models.UnitType) placementRole {
	switch unitType {
	case models.UnitTypeLab:
		return roleLab
	case models.UnitTypeLec:
		if course.UnitCategory == models.UnitCategoryLecLab {
			return roleLecOfLecLab
		}
		return rolePureLec
	case models.UnitTypePureLec:
		return rolePureLec
	default:
		if course.UnitCategory == models.UnitCategoryLecLab {
			return roleLecLabGeneric
		}
		return rolePureLec
	}
}

// roomPenalty encodes the placement policy: lab sessions require
// lab-capable rooms non-negotiably (except under the most relaxed pass),
// and pure lectures avoid lab-dedicated rooms while tolerating generic
// rooms at a high but finite cost. Returns (penalty, feasible).
func (s *AutoSchedulerService) roomPenalty(role placementRole, roomType models.RoomType, allowLabInBoth bool) (float64, bool) {
	w := s.cfg.Weights
	switch role {
	case roleLab:
		switch roomType {
		case models.RoomTypeLecLab:
			return 0, true
		case models.RoomTypeBoth:
			if allowLabInBoth {
				return w.VeryRarePlacement + w.LabInBothExtra, true
			}
			return 0, false
		default:
			return 0, false
		}
	case roleLecOfLecLab:
		switch roomType {
		case models.RoomTypePureLec:
			return 0, true
		default:
			return w.RarePlacement, true
		}
	case roleLecLabGeneric:
		switch roomType {
		case models.RoomTypeLecLab:
			return 0, true
		case models.RoomTypeBoth:
			return w.RarePlacement, true
		default:
			return 0, false
		}
	default: // rolePureLec
		switch roomType {
		case models.RoomTypePureLec:
			return 0, true
		case models.RoomTypeBoth:
			return w.VeryRarePlacement, true
		default:
			return 0, false
		}
	}
}

// --- Single-task search ---

type placement struct {
	Day   models.DayType
	Slot  int
	Col   int
	Score float64
}

type slotCandidate struct {
	day  models.DayType
	slot int
	col  int
}

func (s *AutoSchedulerService) findBestAssignment(wctx *ScheduleContext, topo *RoomTopology, section string, course models.Course, offering models.CourseOffering, cols []int, rng *rand.Rand) (*placement, bool) {
	role := placementRoleFor(course, offering.Type)

	candidates := make([]slotCandidate, 0, len(models.DayTypes)*len(models.TimeSlots)*len(cols))
	for _, day := range models.DayTypes {
		for slot := range models.TimeSlots {
			for _, col := range cols {
				candidates = append(candidates, slotCandidate{day: day, slot: slot, col: col})
			}
		}
	}
	// shuffled enumeration breaks ties pseudo-randomly instead of always
	// favoring the first slot
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	var best *placement
	for _, cand := range candidates {
		if wctx.SectionOccupied(section, cand.day, cand.slot) {
			continue
		}
		daySlots := wctx.SectionSlots(section, cand.day)
		if createsTripleRun(daySlots, cand.slot) {
			continue
		}
		if wctx.ColumnOccupied(cand.col, cand.day, cand.slot) {
			continue
		}
		compat, feasible := s.roomPenalty(role, topo.TypeForColumn(cand.col), false)
		if !feasible {
			continue
		}

		otherDay := otherDayType(cand.day)
		score := compat +
			s.scoreSlot(daySlots, len(daySlots), wctx.SectionDayCount(section, otherDay), cand.slot) +
			s.cfg.Weights.RoomUsage*float64(wctx.ColumnUsage(cand.col)) +
			rng.Float64()*s.cfg.Weights.JitterMax

		if best == nil || score < best.Score {
			best = &placement{Day: cand.day, Slot: cand.slot, Col: cand.col, Score: score}
		}
	}
	return best, best != nil
}

// scoreSlot computes the placement-quality score of adding one slot to a
// section's day: gap penalty against nearest neighbors, day balance after
// the addition, and an adjacency bonus for back-to-back classes.
func (s *AutoSchedulerService) scoreSlot(daySlots []int, dayCount, otherDayCount int, slot int) float64 {
	w := s.cfg.Weights
	score := 0.0

	below, above := -1, -1
	for _, occupied := range daySlots {
		if occupied < slot && occupied > below {
			below = occupied
		}
		if occupied > slot && (above == -1 || occupied < above) {
			above = occupied
		}
	}
	if below >= 0 {
		if gap := slot - below - 1; gap >= 1 {
			score += w.Gap * float64(gap)
		}
	}
	if above >= 0 {
		if gap := above - slot - 1; gap >= 1 {
			score += w.Gap * float64(gap)
		}
	}
	if below == slot-1 || above == slot+1 {
		score += w.Adjacency
	}

	score += w.Balance * math.Abs(float64(dayCount+1)-float64(otherDayCount))
	return score
}

func otherDayType(day models.DayType) models.DayType {
	if day == models.DayTypeMWF {
		return models.DayTypeTTHS
	}
	return models.DayTypeMWF
}

// createsTripleRun reports whether adding the given slots would leave the
// section with 3 or more consecutive occupied slots on that day.
func createsTripleRun(occupied []int, added ...int) bool {
	set := make(map[int]bool, len(occupied)+len(added))
	for _, slot := range occupied {
		set[slot] = true
	}
	for _, slot := range added {
		set[slot] = true
	}
	for slot := range set {
		if set[slot+1] && set[slot+2] {
			return true
		}
	}
	return false
}

// --- Paired-task search ---

type pairPlacement struct {
	Day     models.DayType
	LabSlot int
	LabCol  int
	LecSlot int
	LecCol  int
	Score   float64
}

// relaxationPolicy is one rung of the paired-search ladder. The first
// policy that yields any feasible placement wins; later rungs exist
// because facility data is frequently incomplete and the scheduler must
// still produce something rather than fail outright.
type relaxationPolicy struct {
	name            string
	allowTripleRun  bool
	allowLabInBoth  bool
	strategyPenalty float64
}

func (s *AutoSchedulerService) pairPolicies() []relaxationPolicy {
	return []relaxationPolicy{
		{name: "strict"},
		{name: "relaxed", allowTripleRun: true},
		{name: "most-relaxed", allowTripleRun: true, allowLabInBoth: true, strategyPenalty: s.cfg.Weights.MostRelaxedPass},
	}
}

type pairStart struct {
	day      models.DayType
	start    int
	labFirst bool
}

func (s *AutoSchedulerService) findBestPairedAssignment(wctx *ScheduleContext, topo *RoomTopology, section string, task scheduleTask, cols []int, rng *rand.Rand) (*pairPlacement, bool) {
	w := s.cfg.Weights
	evaluations := 0

	starts := make([]pairStart, 0, len(models.DayTypes)*(len(models.TimeSlots)-1)*2)
	for _, day := range models.DayTypes {
		for start := 0; start < len(models.TimeSlots)-1; start++ {
			// Lab-then-Lec tried ahead of Lec-then-Lab: the Lab half is
			// the room-constrained one
			starts = append(starts, pairStart{day: day, start: start, labFirst: true})
			starts = append(starts, pairStart{day: day, start: start, labFirst: false})
		}
	}
	rng.Shuffle(len(starts), func(i, j int) {
		starts[i], starts[j] = starts[j], starts[i]
	})

	for _, policy := range s.pairPolicies() {
		var best *pairPlacement
		for _, cand := range starts {
			labSlot, lecSlot := cand.start, cand.start+1
			if !cand.labFirst {
				labSlot, lecSlot = lecSlot, labSlot
			}
			if wctx.SectionOccupied(section, cand.day, cand.start) || wctx.SectionOccupied(section, cand.day, cand.start+1) {
				continue
			}

			daySlots := wctx.SectionSlots(section, cand.day)
			tripleViolation := createsTripleRun(daySlots, cand.start, cand.start+1)
			if tripleViolation && !policy.allowTripleRun {
				continue
			}

			otherCount := wctx.SectionDayCount(section, otherDayType(cand.day))
			firstScore := s.scoreSlot(daySlots, len(daySlots), otherCount, cand.start)
			withFirst := append(append([]int{}, daySlots...), cand.start)
			sort.Ints(withFirst)
			secondScore := s.scoreSlot(withFirst, len(withFirst), otherCount, cand.start+1)
			baseScore := firstScore + secondScore
			if tripleViolation {
				baseScore += w.RelaxedConsecutive
			}

			for _, labCol := range cols {
				if wctx.ColumnOccupied(labCol, cand.day, labSlot) {
					continue
				}
				labCompat, feasible := s.roomPenalty(roleLab, topo.TypeForColumn(labCol), policy.allowLabInBoth)
				if !feasible {
					continue
				}
				for _, lecCol := range cols {
					if wctx.ColumnOccupied(lecCol, cand.day, lecSlot) {
						continue
					}
					lecCompat, feasible := s.roomPenalty(roleLecOfLecLab, topo.TypeForColumn(lecCol), false)
					if !feasible {
						continue
					}

					evaluations++
					if evaluations > s.cfg.MaxPairEvaluations {
						return best, best != nil
					}

					score := baseScore + labCompat + lecCompat +
						w.RoomUsage*float64(wctx.ColumnUsage(labCol)) +
						w.RoomUsage*float64(wctx.ColumnUsage(lecCol)) +
						policy.strategyPenalty +
						rng.Float64()*w.JitterMax

					if best == nil || score < best.Score {
						best = &pairPlacement{
							Day:     cand.day,
							LabSlot: labSlot,
							LabCol:  labCol,
							LecSlot: lecSlot,
							LecCol:  lecCol,
							Score:   score,
						}
					}
				}
			}
		}
		if best != nil {
			return best, true
		}
	}
	return nil, false
}

// --- Commit ---

var entryPalette = []string{
	"#4C6EF5", "#12B886", "#FA5252", "#FAB005",
	"#7950F2", "#15AABF", "#E64980", "#82C91E",
}

func colorFor(courseID string) string {
	sum := 0
	for _, b := range []byte(courseID) {
		sum += int(b)
	}
	return entryPalette[sum%len(entryPalette)]
}

// buildEntries materialises a winning placement as its two persisted rows:
// the section-level record (col=0) and the room-level record (col>0).
func (s *AutoSchedulerService) buildEntries(course models.Course, offering models.CourseOffering, day models.DayType, slot, col int, topo *RoomTopology, roomIDs map[string]string) []models.ScheduleEntry {
	color := colorFor(course.ID)
	timeSlot := models.TimeSlots[slot]

	sectionEntry := models.ScheduleEntry{
		DayType:  day,
		TimeSlot: timeSlot,
		Col:      0,
		CourseID: course.ID,
		UnitType: offering.Type,
		Section:  offering.Section,
		Color:    color,
	}

	roomEntry := sectionEntry
	roomEntry.Col = col
	if id, ok := roomIDs[topo.BaseRoom(col)]; ok {
		roomEntry.RoomID = &id
	}

	return []models.ScheduleEntry{sectionEntry, roomEntry}
}

// commit persists one placement's rows inside a single transaction so a
// paired task never lands half-committed.
func (s *AutoSchedulerService) commit(ctx context.Context, entries []models.ScheduleEntry) error {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin schedule transaction")
	}
	if err := s.entries.BulkCreateWithTx(ctx, tx, entries); err != nil {
		_ = tx.Rollback()
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedule entries")
	}
	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule entries")
	}
	return nil
}
