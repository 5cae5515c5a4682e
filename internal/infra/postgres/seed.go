package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"cybercase-service/internal/seed"

	"github.com/uptrace/bun"
)

// Seed loads the fixed training content into Postgres. It is idempotent:
// existing rows are left untouched, so it is safe to run at every startup.
func Seed(ctx context.Context, db *bun.DB) error {
	questions, err := seed.Questions()
	if err != nil {
		return err
	}
	data, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("marshal question bank: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO question_banks (name, data) VALUES ('default', ?::jsonb) ON CONFLICT (name) DO NOTHING`,
		string(data)); err != nil {
		return fmt.Errorf("seed question bank: %w", err)
	}

	// Parents precede children in the fixture, so referential integrity
	// holds row by row.
	for _, node := range seed.CaseNodes() {
		row := fileRowFrom(node)
		if _, err := db.NewInsert().Model(&row).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("seed case file %q: %w", node.Name, err)
		}
	}

	for nodeID, meta := range seed.CaseMetadata() {
		row := metadataRow{NodeID: nodeID, Data: meta}
		if _, err := db.NewInsert().Model(&row).On("CONFLICT (node_id) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("seed metadata for node %d: %w", nodeID, err)
		}
	}

	for _, level := range seed.DrillLevels() {
		row := drillRow{
			ID:          level.ID,
			Title:       level.Title,
			Description: level.Description,
			Hint:        level.Hint,
			Solution:    level.Solution,
		}
		if _, err := db.NewInsert().Model(&row).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("seed drill level %q: %w", level.Title, err)
		}
	}
	return nil
}
