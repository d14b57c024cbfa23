package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"billmunshi/internal/config"
	"billmunshi/internal/domain"
	"billmunshi/internal/port"
)

// FileUploadInput is the DTO for file upload requests.
type FileUploadInput struct {
	OrgID      uuid.UUID
	UploadedBy uuid.UUID
	File       multipart.File
	Header     *multipart.FileHeader
}

// FileService defines the file management contract.
type FileService interface {
	Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error)
	GetByID(ctx context.Context, orgID, fileID uuid.UUID) (*domain.FileMeta, error)
	List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error)
	GetDownloadURL(ctx context.Context, orgID, fileID uuid.UUID) (string, error)
}

type fileService struct {
	fileRepo port.FileMetaRepository
	storage  port.ObjectStorage
	cfg      *config.S3Config
}

// NewFileService creates a new FileService implementation.
func NewFileService(
	fileRepo port.FileMetaRepository,
	storage port.ObjectStorage,
	cfg *config.S3Config,
) FileService {
	return &fileService{
		fileRepo: fileRepo,
		storage:  storage,
		cfg:      cfg,
	}
}

func (s *fileService) Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Magic-byte content type detection, the client-supplied header is
	// not trusted.
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	detectedType := http.DetectContentType(buf[:n])
	if _, validContent := domain.AllowedContentTypes[detectedType]; !validContent {
		return nil, domain.ErrUnsupportedFileType
	}

	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	fileID := uuid.New()
	s3Key := fmt.Sprintf("orgs/%s/files/%s/%s", input.OrgID, fileID, input.Header.Filename)

	meta := &domain.FileMeta{
		ID:           fileID,
		OrgID:        input.OrgID,
		UploadedBy:   input.UploadedBy,
		FileName:     fileID.String() + "." + ext,
		OriginalName: input.Header.Filename,
		FileType:     fileType,
		FileSize:     input.Header.Size,
		S3Bucket:     s.cfg.Bucket,
		S3Key:        s3Key,
		ContentType:  detectedType,
	}

	log.Printf("fileService.Upload: uploading %s (%s, %d bytes) for org %s",
		input.Header.Filename, detectedType, input.Header.Size, input.OrgID)

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         s3Key,
		Body:        input.File,
		ContentType: detectedType,
		Size:        input.Header.Size,
	})
	if err != nil {
		log.Printf("fileService.Upload: S3 upload failed for file %s: %v", meta.ID, err)
		return nil, domain.ErrUploadFailed
	}

	if err := s.fileRepo.Create(ctx, meta); err != nil {
		log.Printf("fileService.Upload: failed to create file metadata: %v", err)
		return nil, fmt.Errorf("creating file metadata: %w", err)
	}
	return meta, nil
}

func (s *fileService) GetByID(ctx context.Context, orgID, fileID uuid.UUID) (*domain.FileMeta, error) {
	return s.fileRepo.GetByID(ctx, orgID, fileID)
}

func (s *fileService) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error) {
	return s.fileRepo.ListByOrg(ctx, orgID, offset, limit)
}

func (s *fileService) GetDownloadURL(ctx context.Context, orgID, fileID uuid.UUID) (string, error) {
	meta, err := s.fileRepo.GetByID(ctx, orgID, fileID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, meta.S3Bucket, meta.S3Key, s.cfg.PresignExpiry)
}
