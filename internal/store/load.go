package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"cadence-cli/internal/model"
)

// DB is the loaded, in-memory view of a workspace. The board engine reads and
// optimistically mutates these collections; it never queries sqlite itself.
type DB struct {
	Tasks     []model.Task
	Projects  []model.Project
	Areas     []model.Area
	Headings  []model.Heading
	Checklist []model.ChecklistItem
	Rules     []model.RepeatRule
}

func (db *DB) FindTask(id string) (*model.Task, bool) {
	for i := range db.Tasks {
		if db.Tasks[i].ID == id {
			return &db.Tasks[i], true
		}
	}
	return nil, false
}

func (db *DB) FindProject(id string) (*model.Project, bool) {
	for i := range db.Projects {
		if db.Projects[i].ID == id {
			return &db.Projects[i], true
		}
	}
	return nil, false
}

func (db *DB) FindHeading(id string) (*model.Heading, bool) {
	for i := range db.Headings {
		if db.Headings[i].ID == id {
			return &db.Headings[i], true
		}
	}
	return nil, false
}

// ProjectByRef finds a project by id or exact (case-insensitive) name.
func (db *DB) ProjectByRef(ref string) (*model.Project, bool) {
	ref = strings.TrimSpace(ref)
	if p, ok := db.FindProject(ref); ok {
		return p, true
	}
	for i := range db.Projects {
		if strings.EqualFold(db.Projects[i].Name, ref) {
			return &db.Projects[i], true
		}
	}
	return nil, false
}

// Load reads every collection. Ordering is left to the board projection;
// queries only pin a stable scan order.
func Load(ctx context.Context, sq *sql.DB) (*DB, error) {
	db := &DB{}
	if err := loadTasks(ctx, sq, db); err != nil {
		return nil, err
	}
	if err := loadProjects(ctx, sq, db); err != nil {
		return nil, err
	}
	if err := loadAreas(ctx, sq, db); err != nil {
		return nil, err
	}
	if err := loadHeadings(ctx, sq, db); err != nil {
		return nil, err
	}
	if err := loadChecklist(ctx, sq, db); err != nil {
		return nil, err
	}
	if err := loadRules(ctx, sq, db); err != nil {
		return nil, err
	}
	return db, nil
}

func loadTasks(ctx context.Context, sq *sql.DB, db *DB) error {
	rows, err := sq.QueryContext(ctx, `
		SELECT id, title, notes, status, project_id, heading_id, area_id,
		       scheduled_date, evening, position, tags, rule_id,
		       created_at, updated_at
		FROM tasks ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var t model.Task
		var projectID, headingID, areaID, schedDate, ruleID sql.NullString
		var evening int
		var tags, createdAt, updatedAt string
		var status string
		if err := rows.Scan(&t.ID, &t.Title, &t.Notes, &status, &projectID,
			&headingID, &areaID, &schedDate, &evening, &t.Position,
			&tags, &ruleID, &createdAt, &updatedAt); err != nil {
			return err
		}
		t.Status = model.TaskStatus(status)
		t.ProjectID = optFromNull(projectID)
		t.HeadingID = optFromNull(headingID)
		t.AreaID = optFromNull(areaID)
		t.ScheduledDate = optFromNull(schedDate)
		t.RuleID = optFromNull(ruleID)
		t.Evening = evening != 0
		t.Tags = splitTags(tags)
		t.CreatedAt = parseTime(createdAt)
		t.UpdatedAt = parseTime(updatedAt)
		db.Tasks = append(db.Tasks, t)
	}
	return rows.Err()
}

func loadProjects(ctx context.Context, sq *sql.DB, db *DB) error {
	rows, err := sq.QueryContext(ctx, `
		SELECT id, name, area_id, position, archived, created_at
		FROM projects ORDER BY position, id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var p model.Project
		var areaID sql.NullString
		var archived int
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &areaID, &p.Position, &archived, &createdAt); err != nil {
			return err
		}
		p.AreaID = optFromNull(areaID)
		p.Archived = archived != 0
		p.CreatedAt = parseTime(createdAt)
		db.Projects = append(db.Projects, p)
	}
	return rows.Err()
}

func loadAreas(ctx context.Context, sq *sql.DB, db *DB) error {
	rows, err := sq.QueryContext(ctx, `
		SELECT id, name, position, created_at FROM areas ORDER BY position, id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var a model.Area
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Name, &a.Position, &createdAt); err != nil {
			return err
		}
		a.CreatedAt = parseTime(createdAt)
		db.Areas = append(db.Areas, a)
	}
	return rows.Err()
}

func loadHeadings(ctx context.Context, sq *sql.DB, db *DB) error {
	rows, err := sq.QueryContext(ctx, `
		SELECT id, project_id, title, position, archived, created_at
		FROM headings ORDER BY position, id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var h model.Heading
		var archived int
		var createdAt string
		if err := rows.Scan(&h.ID, &h.ProjectID, &h.Title, &h.Position, &archived, &createdAt); err != nil {
			return err
		}
		h.Archived = archived != 0
		h.CreatedAt = parseTime(createdAt)
		db.Headings = append(db.Headings, h)
	}
	return rows.Err()
}

func loadChecklist(ctx context.Context, sq *sql.DB, db *DB) error {
	rows, err := sq.QueryContext(ctx, `
		SELECT id, task_id, title, done, position
		FROM checklist_items ORDER BY position, id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var c model.ChecklistItem
		var done int
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Title, &done, &c.Position); err != nil {
			return err
		}
		c.Done = done != 0
		db.Checklist = append(db.Checklist, c)
	}
	return rows.Err()
}

func loadRules(ctx context.Context, sq *sql.DB, db *DB) error {
	rows, err := sq.QueryContext(ctx, `
		SELECT id, frequency, interval, next_date, template, created_at
		FROM repeat_rules ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r model.RepeatRule
		var freq, createdAt string
		if err := rows.Scan(&r.ID, &freq, &r.Interval, &r.NextDate, &r.Template, &createdAt); err != nil {
			return err
		}
		r.Frequency = model.RepeatFrequency(freq)
		r.CreatedAt = parseTime(createdAt)
		db.Rules = append(db.Rules, r)
	}
	return rows.Err()
}

func optFromNull(s sql.NullString) *string {
	if !s.Valid || strings.TrimSpace(s.String) == "" {
		return nil
	}
	v := s.String
	return &v
}

func splitTags(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
