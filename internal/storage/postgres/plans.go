package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/cyclefit/internal/models"
)

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func insertPlans(tx *sql.Tx, userID string, plans []models.Plan) error {
	planStmt, err := tx.Prepare(`
		INSERT INTO plans (id, user_id, seq, start_date, end_date, difficulty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return err
	}
	defer planStmt.Close()

	dayStmt, err := tx.Prepare("INSERT INTO days (plan_id, day_index, feedback, completion) VALUES ($1, $2, $3, $4)")
	if err != nil {
		return err
	}
	defer dayStmt.Close()

	exStmt, err := tx.Prepare(`
		INSERT INTO exercises (
			plan_id, day_index, position, name, target, unit, description, required_equipment, completed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`)
	if err != nil {
		return err
	}
	defer exStmt.Close()

	for seq, plan := range plans {
		if _, err := planStmt.Exec(plan.ID, userID, seq, plan.StartDate, plan.EndDate, plan.Difficulty, plan.CreatedAt.UTC()); err != nil {
			return fmt.Errorf("failed to insert plan %s: %w", plan.ID, err)
		}
		for d, day := range plan.Days {
			if _, err := dayStmt.Exec(plan.ID, d, day.Feedback, day.Completion); err != nil {
				return fmt.Errorf("failed to insert day %d of plan %s: %w", d, plan.ID, err)
			}
			for pos, ex := range day.Exercises {
				tags := ex.RequiredEquipment
				if tags == nil {
					tags = []string{}
				}
				equipment, err := json.Marshal(tags)
				if err != nil {
					return fmt.Errorf("failed to encode equipment: %w", err)
				}
				if _, err := exStmt.Exec(plan.ID, d, pos, ex.Name, ex.Target, string(ex.Unit), ex.Description, string(equipment), ex.Completed); err != nil {
					return fmt.Errorf("failed to insert exercise %d of day %d: %w", pos, d, err)
				}
			}
		}
	}
	return nil
}

func deletePlans(tx *sql.Tx, userID string) error {
	const planIDs = "SELECT id FROM plans WHERE user_id = $1"
	if _, err := tx.Exec("DELETE FROM exercises WHERE plan_id IN ("+planIDs+")", userID); err != nil {
		return fmt.Errorf("failed to delete exercises: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM days WHERE plan_id IN ("+planIDs+")", userID); err != nil {
		return fmt.Errorf("failed to delete days: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM plans WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("failed to delete plans: %w", err)
	}
	return nil
}

func loadPlans(q querier, userID string) ([]models.Plan, error) {
	rows, err := q.Query(`
		SELECT id, start_date, end_date, difficulty, created_at
		FROM plans WHERE user_id = $1 ORDER BY seq`, userID)
	if err != nil {
		return nil, err
	}

	var plans []models.Plan
	for rows.Next() {
		var plan models.Plan
		if err := rows.Scan(&plan.ID, &plan.StartDate, &plan.EndDate, &plan.Difficulty, &plan.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		plans = append(plans, plan)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range plans {
		if plans[i].Days, err = loadDays(q, plans[i].ID); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

func loadDays(q querier, planID string) ([]models.Day, error) {
	rows, err := q.Query("SELECT feedback, completion FROM days WHERE plan_id = $1 ORDER BY day_index", planID)
	if err != nil {
		return nil, err
	}

	var days []models.Day
	for rows.Next() {
		var day models.Day
		if err := rows.Scan(&day.Feedback, &day.Completion); err != nil {
			rows.Close()
			return nil, err
		}
		days = append(days, day)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = q.Query(`
		SELECT day_index, name, target, unit, description, required_equipment, completed
		FROM exercises WHERE plan_id = $1 ORDER BY day_index, position`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var dayIndex int
		var ex models.Exercise
		var unit string
		var equipment []byte
		if err := rows.Scan(&dayIndex, &ex.Name, &ex.Target, &unit, &ex.Description, &equipment, &ex.Completed); err != nil {
			return nil, err
		}
		if dayIndex < 0 || dayIndex >= len(days) {
			return nil, fmt.Errorf("exercise references missing day %d of plan %s", dayIndex, planID)
		}
		ex.Unit = models.Unit(unit)
		var tags []string
		if err := json.Unmarshal(equipment, &tags); err != nil {
			return nil, fmt.Errorf("failed to parse equipment for plan %s: %w", planID, err)
		}
		if len(tags) > 0 {
			ex.RequiredEquipment = tags
		}
		days[dayIndex].Exercises = append(days[dayIndex].Exercises, ex)
	}
	return days, rows.Err()
}
