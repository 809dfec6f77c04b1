package services

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	intconfig "github.com/quirkbeesdevtech/amberisle-be/internal/config"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain"
	"github.com/quirkbeesdevtech/amberisle-be/internal/domain/models"
	"github.com/quirkbeesdevtech/amberisle-be/internal/repositories"
	"github.com/quirkbeesdevtech/amberisle-be/internal/utils"
)

var allowedPhotoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// PhotoService stores driver profile photos on local disk. Replacing a photo
// removes the previous file unless it is the shared default.
type PhotoService struct {
	DriverRepo repositories.DriverRepo
	UploadDir  string
	DB         *sql.DB
	RequestID  string
}

func (s PhotoService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s PhotoService) drivers() repositories.DriverRepo {
	if s.DriverRepo.DB != nil {
		return s.DriverRepo
	}
	return repositories.DriverRepo{DB: s.db()}
}

// Store saves the uploaded photo and points the driver record at it.
// Returns the public URI of the stored file.
func (s PhotoService) Store(driverID int64, src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedPhotoExts[ext] {
		return "", domain.ValidationError{Field: "photo", Msg: "only jpg, jpeg, png, or webp files are allowed"}
	}

	driver, err := s.drivers().GetByID(driverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.NotFoundError{Resource: "driver", Err: err}
		}
		return "", domain.InternalError{Err: err}
	}

	if err := os.MkdirAll(s.UploadDir, 0o755); err != nil {
		return "", domain.InternalError{Err: err}
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.UploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", domain.InternalError{Err: err}
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", domain.InternalError{Err: err}
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", domain.InternalError{Err: err}
	}

	uri := "/uploads/drivers/" + name
	if err := s.drivers().UpdatePhoto(driverID, uri); err != nil {
		os.Remove(path)
		return "", domain.InternalError{Err: err}
	}

	s.removeStored(driver.ProfilePhoto)

	utils.LogEvent(s.RequestID, "photo", "store", fmt.Sprintf("driver_id=%d file=%s", driverID, name))
	return uri, nil
}

// Delete removes the stored photo and resets the driver to the default.
func (s PhotoService) Delete(driverID int64) error {
	driver, err := s.drivers().GetByID(driverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "driver", Err: err}
		}
		return domain.InternalError{Err: err}
	}

	if err := s.drivers().UpdatePhoto(driverID, models.DefaultDriverPhoto); err != nil {
		return domain.InternalError{Err: err}
	}

	s.removeStored(driver.ProfilePhoto)

	utils.LogEvent(s.RequestID, "photo", "delete", fmt.Sprintf("driver_id=%d", driverID))
	return nil
}

// removeStored deletes a previously stored file. Default or external URIs
// are left alone; a missing file is not an error.
func (s PhotoService) removeStored(uri string) {
	if uri == "" || uri == models.DefaultDriverPhoto {
		return
	}
	const prefix = "/uploads/drivers/"
	if !strings.HasPrefix(uri, prefix) {
		return
	}
	name := filepath.Base(strings.TrimPrefix(uri, prefix))
	_ = os.Remove(filepath.Join(s.UploadDir, name))
}
