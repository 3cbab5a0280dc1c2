package store

import (
	"context"

	"shoppos/m/domain"
)

func (s *Store) InsertOperator(ctx context.Context, op domain.Operator) (int64, error) {
	res, err := s.q.ExecContext(ctx, `INSERT INTO operators (username, password, role) VALUES (?, ?, ?)`, op.Username, op.Password, op.Role)
	if err != nil {
		return 0, wrap(err)
	}
	id, err := res.LastInsertId()
	return id, wrap(err)
}

func (s *Store) GetOperatorByUsername(ctx context.Context, username string) (domain.Operator, error) {
	var op domain.Operator
	err := s.q.GetContext(ctx, &op, `SELECT id, username, password, role, created_at FROM operators WHERE username = ?`, username)
	return op, wrap(err)
}

func (s *Store) SetOperatorPassword(ctx context.Context, id int64, hash string) error {
	res, err := s.q.ExecContext(ctx, `UPDATE operators SET password = ? WHERE id = ?`, hash, id)
	return mustAffect(res, err, ErrNotFound)
}

func (s *Store) CountOperators(ctx context.Context) (int, error) {
	var n int
	err := s.q.GetContext(ctx, &n, `SELECT COUNT(*) FROM operators`)
	return n, wrap(err)
}
