package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"jobportal/internal/access"
	"jobportal/internal/auth"
	"jobportal/internal/database"
)

const msgUsernameTaken = "A user with that username already exists."

// RegisterInput is the sign-up form shared by seekers and employers.
type RegisterInput struct {
	Username        string `form:"username" validate:"required,max=150,username"`
	Email           string `form:"email" validate:"omitempty,email,max=254"`
	Password        string `form:"password1" validate:"required,min=8,max=72"`
	PasswordConfirm string `form:"password2" validate:"required,eqfield=Password"`
}

// Provisioned is an account together with the profile its role calls for.
// Unassigned accounts have neither profile.
type Provisioned struct {
	Account  *database.Account
	Seeker   *database.SeekerProfile
	Employer *database.EmployerProfile
}

// Register creates an account with role and its profile in one transaction.
func (s *Service) Register(ctx context.Context, in RegisterInput, role database.Role) (*Provisioned, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := s.check(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	account := &database.Account{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	}

	var out *Provisioned
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&database.Account{}).Where("username = ?", account.Username).Count(&taken).Error; err != nil {
			return fmt.Errorf("lookup username: %w", err)
		}
		if taken > 0 {
			return FieldErrors{"username": msgUsernameTaken}
		}
		if err := tx.Create(account).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return FieldErrors{"username": msgUsernameTaken}
			}
			return fmt.Errorf("create account: %w", err)
		}

		provisioned, err := ProvisionAccount(ctx, tx, account)
		if err != nil {
			return err
		}
		out = provisioned
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("account registered",
		slog.Uint64("account_id", uint64(account.ID)),
		slog.String("role", string(account.Role)),
	)
	return out, nil
}

// ProvisionAccount creates the profile matching account's role inside tx.
// It is the only place profiles are created on account creation.
func ProvisionAccount(ctx context.Context, tx *gorm.DB, account *database.Account) (*Provisioned, error) {
	out := &Provisioned{Account: account}
	switch account.Role {
	case database.RoleSeeker:
		profile := &database.SeekerProfile{AccountID: account.ID}
		if err := tx.WithContext(ctx).Create(profile).Error; err != nil {
			return nil, fmt.Errorf("create seeker profile: %w", err)
		}
		out.Seeker = profile
	case database.RoleEmployer:
		profile := &database.EmployerProfile{AccountID: account.ID}
		if err := tx.WithContext(ctx).Create(profile).Error; err != nil {
			return nil, fmt.Errorf("create employer profile: %w", err)
		}
		out.Employer = profile
	case database.RoleUnassigned:
	default:
		return nil, fmt.Errorf("unknown role %q", account.Role)
	}
	return out, nil
}

// Authenticate returns the account for username if password matches.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*database.Account, error) {
	var account database.Account
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if !auth.CheckPasswordHash(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &account, nil
}

// Account loads an account by id.
func (s *Service) Account(ctx context.Context, id uint) (*database.Account, error) {
	var account database.Account
	err := s.db.WithContext(ctx).First(&account, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return &account, nil
}

// Profile returns the actor's profile, creating it if it went missing.
func (s *Service) Profile(ctx context.Context, actor *database.Account) (*Provisioned, error) {
	if err := access.Authorize(access.ViewProfile, actor, access.Target{}); err != nil {
		return nil, err
	}
	return s.profileFor(s.db.WithContext(ctx), actor)
}

func (s *Service) profileFor(db *gorm.DB, actor *database.Account) (*Provisioned, error) {
	out := &Provisioned{Account: actor}
	switch {
	case actor.IsSeeker():
		var profile database.SeekerProfile
		if err := db.Where(database.SeekerProfile{AccountID: actor.ID}).FirstOrCreate(&profile).Error; err != nil {
			return nil, fmt.Errorf("load seeker profile: %w", err)
		}
		out.Seeker = &profile
	case actor.IsEmployer():
		var profile database.EmployerProfile
		if err := db.Where(database.EmployerProfile{AccountID: actor.ID}).FirstOrCreate(&profile).Error; err != nil {
			return nil, fmt.Errorf("load employer profile: %w", err)
		}
		out.Employer = &profile
	}
	return out, nil
}

// SeekerProfileInput is the seeker profile form. Resume is optional; when
// present it replaces the resume on file.
type SeekerProfileInput struct {
	Skills     string  `form:"skills" validate:"max=5000"`
	Experience string  `form:"experience" validate:"max=10000"`
	Education  string  `form:"education" validate:"max=5000"`
	Resume     *Upload `form:"-" validate:"-"`
}

// UpdateSeekerProfile saves the actor's seeker profile.
func (s *Service) UpdateSeekerProfile(ctx context.Context, actor *database.Account, in SeekerProfileInput) (*database.SeekerProfile, error) {
	if err := access.Authorize(access.EditProfile, actor, access.Target{}); err != nil {
		return nil, err
	}
	if !actor.IsSeeker() {
		return nil, &access.Denial{Action: access.EditProfile, Fallback: access.FallbackJobList}
	}
	if err := s.check(in); err != nil {
		return nil, err
	}

	var stored *storedResume
	if in.Resume != nil {
		var err error
		if stored, err = s.storeResume(ctx, "resume", actor.ID, "profile-", in.Resume); err != nil {
			return nil, err
		}
	}

	var (
		profile database.SeekerProfile
		oldKey  string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(database.SeekerProfile{AccountID: actor.ID}).FirstOrCreate(&profile).Error; err != nil {
			return fmt.Errorf("load seeker profile: %w", err)
		}
		profile.Skills = strings.TrimSpace(in.Skills)
		profile.Experience = strings.TrimSpace(in.Experience)
		profile.Education = strings.TrimSpace(in.Education)
		if stored != nil {
			oldKey = profile.ResumeKey
			profile.ResumeKey = stored.key
		}
		if err := tx.Save(&profile).Error; err != nil {
			return fmt.Errorf("update seeker profile: %w", err)
		}
		return nil
	})
	if err != nil {
		if stored != nil {
			s.discard(ctx, stored.key)
		}
		return nil, err
	}

	if oldKey != "" {
		s.purgeLater(ctx, []string{oldKey})
	}
	return &profile, nil
}

// EmployerProfileInput is the employer profile form.
type EmployerProfileInput struct {
	CompanyName        string `form:"company_name" validate:"max=255"`
	CompanyDescription string `form:"company_description" validate:"max=10000"`
	Website            string `form:"website" validate:"omitempty,url,max=200"`
}

// UpdateEmployerProfile saves the actor's employer profile.
func (s *Service) UpdateEmployerProfile(ctx context.Context, actor *database.Account, in EmployerProfileInput) (*database.EmployerProfile, error) {
	if err := access.Authorize(access.EditProfile, actor, access.Target{}); err != nil {
		return nil, err
	}
	if !actor.IsEmployer() {
		return nil, &access.Denial{Action: access.EditProfile, Fallback: access.FallbackJobList}
	}
	in.Website = strings.TrimSpace(in.Website)
	if err := s.check(in); err != nil {
		return nil, err
	}

	var profile database.EmployerProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(database.EmployerProfile{AccountID: actor.ID}).FirstOrCreate(&profile).Error; err != nil {
			return fmt.Errorf("load employer profile: %w", err)
		}
		profile.CompanyName = strings.TrimSpace(in.CompanyName)
		profile.CompanyDescription = strings.TrimSpace(in.CompanyDescription)
		profile.Website = in.Website
		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, fmt.Errorf("update employer profile: %w", err)
	}
	return &profile, nil
}

// ProfileResumeURL returns a short lived link to the resume on the actor's seeker profile.
func (s *Service) ProfileResumeURL(ctx context.Context, actor *database.Account) (string, error) {
	prof, err := s.Profile(ctx, actor)
	if err != nil {
		return "", err
	}
	if prof.Seeker == nil || prof.Seeker.ResumeKey == "" {
		return "", ErrNoResume
	}
	return s.storage.GeneratePresignedURL(ctx, prof.Seeker.ResumeKey, s.resumeURLTTL, downloadName(actor.Username, prof.Seeker.ResumeKey))
}
