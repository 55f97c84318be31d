package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/pkg/auth"
)

// CreateDefaultData seeds the database with a default parish and admin
// account on first start. It is a no-op when users already exist.
func CreateDefaultData(ctx context.Context, pool *pgxpool.Pool, lgr zerolog.Logger) error {
	var userCount int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&userCount); err != nil {
		return fmt.Errorf("error counting users: %w", err)
	}
	if userCount > 0 {
		lgr.Debug().Msg("Seed skipped, users already present")
		return nil
	}

	lgr.Info().Msg("Seeding default data...")

	var parishID int64
	err := pool.QueryRow(ctx, `
		INSERT INTO parishes (name, description, address)
		VALUES ($1, $2, $3)
		RETURNING id`,
		"Giáo Xứ Chính Tòa", "Giáo xứ mặc định", "01 Trần Phú").Scan(&parishID)
	if err != nil {
		return fmt.Errorf("error seeding parish: %w", err)
	}

	users := []struct {
		email    string
		username string
		password string
		fullName string
		role     models.UserRole
	}{
		{"admin@qlgl.com", "admin", "admin123", "Quản Trị Viên", models.RoleSuperAdmin},
		{"gxadmin@qlgl.com", "gxadmin", "gxadmin123", "Thư Ký Giáo Xứ", models.RoleParishAdmin},
		{"glv1@qlgl.com", "glv1", "glv123", "Nguyễn Văn Bình", models.RoleCatechist},
	}

	var teacherID int64
	for _, u := range users {
		hashed, err := auth.HashPassword(u.password)
		if err != nil {
			return fmt.Errorf("error hashing seed password: %w", err)
		}
		var id int64
		err = pool.QueryRow(ctx, `
			INSERT INTO users (email, username, password, full_name, role, is_active)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			RETURNING id`,
			u.email, u.username, hashed, u.fullName, u.role).Scan(&id)
		if err != nil {
			return fmt.Errorf("error seeding user %s: %w", u.username, err)
		}
		if u.role == models.RoleCatechist {
			teacherID = id
		}
	}

	var classID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO classes (name, grade_level, academic_year, teacher_id, room)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		"Lớp Chiên Ngoan 1", "Thiếu Nhi", "2025-2026", teacherID, "Phòng 101").Scan(&classID)
	if err != nil {
		return fmt.Errorf("error seeding class: %w", err)
	}

	students := []struct {
		code      string
		saintName string
		firstName string
		lastName  string
		gender    models.Gender
		birth     string
		guardian  string
		relation  string
		phone     string
	}{
		{"HS001", "Maria", "An", "Nguyễn", models.GenderFemale, "2015-03-12", "Nguyễn Văn Hùng", "Bố", "0905123456"},
		{"HS002", "Giuse", "Bảo", "Trần", models.GenderMale, "2014-08-21", "Trần Thị Lan", "Mẹ", "0906234567"},
	}

	for _, st := range students {
		var studentID int64
		fullName := st.lastName + " " + st.firstName
		err := pool.QueryRow(ctx, `
			INSERT INTO students (code, saint_name, first_name, last_name, full_name, gender, date_of_birth, parish_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			st.code, st.saintName, st.firstName, st.lastName, fullName,
			st.gender, st.birth, parishID).Scan(&studentID)
		if err != nil {
			return fmt.Errorf("error seeding student %s: %w", st.code, err)
		}

		_, err = pool.Exec(ctx, `
			INSERT INTO guardians (student_id, name, relationship, phone, is_primary)
			VALUES ($1, $2, $3, $4, TRUE)`,
			studentID, st.guardian, st.relation, st.phone)
		if err != nil {
			return fmt.Errorf("error seeding guardian for %s: %w", st.code, err)
		}

		_, err = pool.Exec(ctx, `
			INSERT INTO class_enrollments (class_id, student_id)
			VALUES ($1, $2)`, classID, studentID)
		if err != nil {
			return fmt.Errorf("error seeding enrollment for %s: %w", st.code, err)
		}
	}

	lgr.Info().Msg("Default data seeded")
	return nil
}
