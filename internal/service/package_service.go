package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fitbody/fitbody-backend/internal/models"
	"github.com/fitbody/fitbody-backend/internal/repository"
	"github.com/fitbody/fitbody-backend/pkg/storage"
	"github.com/google/uuid"
)

type PackageService struct {
	packageRepo *repository.TrainingPackageRepository
	storage     storage.ObjectStorage
}

func NewPackageService(packageRepo *repository.TrainingPackageRepository, objectStorage storage.ObjectStorage) *PackageService {
	return &PackageService{
		packageRepo: packageRepo,
		storage:     objectStorage,
	}
}

func (s *PackageService) GetAllPackages(ctx context.Context) ([]models.TrainingPackage, error) {
	return s.packageRepo.GetAllActive(ctx)
}

func (s *PackageService) GetPackageByID(ctx context.Context, id uint) (*models.TrainingPackage, error) {
	return s.packageRepo.GetByID(ctx, id)
}

func (s *PackageService) CreatePackage(ctx context.Context, req models.CreatePackageRequest) (*models.TrainingPackage, error) {
	pkg := &models.TrainingPackage{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Currency:        req.Currency,
		DurationWeeks:   req.DurationWeeks,
		SessionsPerWeek: req.SessionsPerWeek,
		IsActive:        true,
	}
	if err := s.packageRepo.Create(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (s *PackageService) UpdatePackage(ctx context.Context, id uint, req models.UpdatePackageRequest) (*models.TrainingPackage, error) {
	pkg, err := s.packageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		pkg.Name = req.Name
	}
	if req.Description != "" {
		pkg.Description = req.Description
	}
	if req.Price > 0 {
		pkg.Price = req.Price
	}
	if req.Currency != "" {
		pkg.Currency = req.Currency
	}
	if req.DurationWeeks > 0 {
		pkg.DurationWeeks = req.DurationWeeks
	}
	if req.SessionsPerWeek > 0 {
		pkg.SessionsPerWeek = req.SessionsPerWeek
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	if err := s.packageRepo.Update(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (s *PackageService) DeletePackage(ctx context.Context, id uint) error {
	return s.packageRepo.Delete(ctx, id)
}

// UploadPackageImage stores a package image in object storage and records
// its public URL on the package.
func (s *PackageService) UploadPackageImage(ctx context.Context, id uint, filename, contentType string, src io.Reader, size int64) (*models.TrainingPackage, error) {
	pkg, err := s.packageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("packages/%d/%s%s", id, uuid.NewString(), filepath.Ext(filename))
	url, err := s.storage.Upload(ctx, key, src, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload package image: %w", err)
	}

	pkg.ImageURL = url
	if err := s.packageRepo.Update(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}
