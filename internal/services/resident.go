package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ivanjaven/extension/internal/storage"
	"github.com/ivanjaven/extension/internal/store"
	"github.com/ivanjaven/extension/types"
	"golang.org/x/crypto/bcrypt"
)

// ResidentRepository defines persistence operations for residents.
type ResidentRepository interface {
	Get(ctx context.Context, id int) (types.Resident, error)
	CreateWithAccount(ctx context.Context, resident types.Resident, account types.Account) (types.Resident, types.Account, error)
	Update(ctx context.Context, resident types.Resident) (types.Resident, error)
	Archive(ctx context.Context, id int) error
	ListFaceDescriptors(ctx context.Context) ([]types.FaceRecord, error)
}

// Registration carries everything needed to enroll a resident: the registry
// fields, credentials, and the captured biometrics.
type Registration struct {
	Resident       types.Resident
	Username       string
	Password       string
	Role           string
	PhotoBase64    string
	FaceDescriptor string
	FingerprintFMD string
}

// ResidentService encapsulates resident use-cases. The storage handle is
// optional; without one, registration skips the photo upload.
type ResidentService struct {
	repo    ResidentRepository
	storage *storage.Storage
}

func NewResidentService(repo ResidentRepository, store *storage.Storage) *ResidentService {
	return &ResidentService{repo: repo, storage: store}
}

func (s *ResidentService) Get(ctx context.Context, id int) (types.Resident, error) {
	return s.repo.Get(ctx, id)
}

// Register hashes the password, uploads the photo, and creates the resident
// and account rows together.
func (s *ResidentService) Register(ctx context.Context, reg Registration) (types.Resident, types.Account, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return types.Resident{}, types.Account{}, err
	}

	resident := reg.Resident
	resident.FullName = strings.TrimSpace(fmt.Sprintf("%s %s %s",
		resident.FirstName, resident.MiddleName, resident.LastName))
	resident.FaceDescriptor = reg.FaceDescriptor
	resident.FingerprintFMD = reg.FingerprintFMD

	if s.storage != nil && reg.PhotoBase64 != "" {
		key, err := s.uploadPhoto(ctx, reg.Username, reg.PhotoBase64)
		if err != nil {
			return types.Resident{}, types.Account{}, err
		}
		resident.PhotoKey = key
	}

	role := reg.Role
	if role == "" {
		role = types.RoleResident
	}
	account := types.Account{
		Username:     reg.Username,
		Role:         role,
		PasswordHash: string(hashed),
	}

	return s.repo.CreateWithAccount(ctx, resident, account)
}

func (s *ResidentService) Update(ctx context.Context, resident types.Resident) (types.Resident, error) {
	return s.repo.Update(ctx, resident)
}

func (s *ResidentService) Archive(ctx context.Context, id int) error {
	return s.repo.Archive(ctx, id)
}

// Photo opens the stored photo for a resident. Residents without an uploaded
// photo report not-found.
func (s *ResidentService) Photo(ctx context.Context, id int) (io.ReadCloser, error) {
	if s.storage == nil {
		return nil, errors.New("photo storage is not configured")
	}
	resident, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if resident.PhotoKey == "" {
		return nil, store.ErrNotFound
	}
	return s.storage.Get(ctx, resident.PhotoKey)
}

// ListFaceDescriptors exposes enrolled descriptors for the face matcher.
func (s *ResidentService) ListFaceDescriptors(ctx context.Context) ([]types.FaceRecord, error) {
	return s.repo.ListFaceDescriptors(ctx)
}

func (s *ResidentService) uploadPhoto(ctx context.Context, username, photoBase64 string) (string, error) {
	// Registration clients send data URLs; strip the prefix if present.
	if idx := strings.Index(photoBase64, ","); idx >= 0 && strings.HasPrefix(photoBase64, "data:") {
		photoBase64 = photoBase64[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(photoBase64)
	if err != nil {
		return "", fmt.Errorf("decode photo: %w", err)
	}

	key := fmt.Sprintf("photos/%s.jpg", username)
	if err := s.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), "image/jpeg"); err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	return key, nil
}
