package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/daviddao/folio/internal/types"
)

// --- Contact inbox ---

// InsertContactMessage stores a contact submission. CreatedAt defaults to now.
func (d *DB) InsertContactMessage(ctx context.Context, m *types.ContactMessage) error {
	if m.CreatedAt == "" {
		m.CreatedAt = Now()
	}
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO contact_messages
			(id, name, email, subject, message, remote_addr, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Subject, m.Message,
		nullStr(m.RemoteAddr), nullStr(m.UserAgent), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

// ContactMessage returns a stored message by ID, or nil if there is none.
func (d *DB) ContactMessage(ctx context.Context, id string) (*types.ContactMessage, error) {
	rows, err := d.conn.QueryContext(ctx, messageQuery+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	msgs, err := scanMessages(rows)
	if err != nil || len(msgs) == 0 {
		return nil, err
	}
	return msgs[0], nil
}

// ListContactMessages returns stored messages, newest first. limit <= 0 means no limit.
func (d *DB) ListContactMessages(ctx context.Context, limit int) ([]*types.ContactMessage, error) {
	query := messageQuery + " ORDER BY created_at DESC, rowid DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := d.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// MarkNotified records the outcome of notifying the owner about a message.
// A nil notifyErr marks the message as delivered.
func (d *DB) MarkNotified(ctx context.Context, id string, notifyErr error) error {
	var res sql.Result
	var err error
	if notifyErr == nil {
		res, err = d.conn.ExecContext(ctx,
			"UPDATE contact_messages SET notified_at = ?, notify_error = NULL WHERE id = ?", Now(), id)
	} else {
		res, err = d.conn.ExecContext(ctx,
			"UPDATE contact_messages SET notify_error = ? WHERE id = ?", notifyErr.Error(), id)
	}
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("contact message %q not found", id)
	}
	return nil
}

const messageQuery = `
	SELECT id, name, email, subject, message, remote_addr, user_agent,
	       created_at, notified_at, notify_error
	FROM contact_messages`

func scanMessages(rows *sql.Rows) ([]*types.ContactMessage, error) {
	result := []*types.ContactMessage{}
	for rows.Next() {
		m := &types.ContactMessage{}
		var addr, agent, notified, notifyErr sql.NullString
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &addr, &agent,
			&m.CreatedAt, &notified, &notifyErr,
		); err != nil {
			return nil, err
		}
		m.RemoteAddr = addr.String
		m.UserAgent = agent.String
		m.NotifiedAt = notified.String
		m.NotifyError = notifyErr.String
		result = append(result, m)
	}
	return result, rows.Err()
}
