package crud

import (
	"context"
	"fmt"

	"github.com/angelmondragon/estatedesk-backend/internal/table"
	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
)

const (
	ActionEdit      = "edit"
	ActionDuplicate = "duplicate"
	ActionDelete    = "delete"
)

func isBuiltinAction(id string) bool {
	return id == ActionEdit || id == ActionDuplicate || id == ActionDelete
}

// ActionResult is what running a custom action yields.
type ActionResult struct {
	Notice  *Notice `json:"notice,omitempty"`
	Payload any     `json:"payload,omitempty"`
}

// Action is a caller-supplied row action shown between Duplicate and Delete.
type Action struct {
	ID      string
	Label   string
	Visible func(record table.Record) bool
	Run     func(ctx context.Context, record table.Record) (ActionResult, error)
}

type ActionView struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Destructive bool   `json:"destructive,omitempty"`
}

// RowActions lists the menu for one record in display order.
func (t *Table) RowActions(ctx context.Context, id string) ([]ActionView, error) {
	record, _, err := t.backend.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	var out []ActionView
	if !t.disableAdd {
		out = append(out, ActionView{ID: ActionEdit, Label: "Edit"}, ActionView{ID: ActionDuplicate, Label: "Duplicate"})
	}
	for _, a := range t.actions {
		if a.Visible == nil || a.Visible(record) {
			out = append(out, ActionView{ID: a.ID, Label: a.Label})
		}
	}
	return append(out, ActionView{ID: ActionDelete, Label: "Delete", Destructive: true}), nil
}

// RowActionOutcome carries whichever of the panel, confirmation dialog or
// custom result the action produced.
type RowActionOutcome struct {
	Panel        *Panel        `json:"panel,omitempty"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
	Result       *ActionResult `json:"result,omitempty"`
}

// RunAction dispatches a row action by id. Delete only ever returns the
// confirmation; the delete itself goes through Delete with confirmed=true.
func (t *Table) RunAction(ctx context.Context, id, actionID string) (RowActionOutcome, error) {
	switch actionID {
	case ActionEdit:
		panel, err := t.OpenEdit(ctx, id)
		if err != nil {
			return RowActionOutcome{}, err
		}
		return RowActionOutcome{Panel: &panel}, nil
	case ActionDuplicate:
		panel, err := t.OpenDuplicate(ctx, id)
		if err != nil {
			return RowActionOutcome{}, err
		}
		return RowActionOutcome{Panel: &panel}, nil
	case ActionDelete:
		confirm, _, err := t.Delete(ctx, id, false)
		if err != nil {
			return RowActionOutcome{}, err
		}
		return RowActionOutcome{Confirmation: confirm}, nil
	}

	record, _, err := t.backend.Find(ctx, id)
	if err != nil {
		return RowActionOutcome{}, err
	}
	for _, a := range t.actions {
		if a.ID != actionID {
			continue
		}
		if a.Visible != nil && !a.Visible(record) {
			return RowActionOutcome{}, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("action %q is not available for this record", actionID))
		}
		result, err := a.Run(t.ctx(ctx), record)
		if err != nil {
			return RowActionOutcome{}, err
		}
		return RowActionOutcome{Result: &result}, nil
	}
	return RowActionOutcome{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("action %q not found", actionID))
}
