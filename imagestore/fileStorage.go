package imagestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Aum-Ahsan/car-rental-booking/config"
	"github.com/Aum-Ahsan/car-rental-booking/domain"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

// FileStorage uploads car images to the external image CDN. The circuit
// breaker keeps catalog writes working while the CDN is down: uploads fall
// back to embedding the base64 payload with a local file id.
type FileStorage struct {
	endpoint   string
	publicKey  string
	privateKey string
	client     *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *log.Logger
}

func New(cfg *config.Config, logger *log.Logger) *FileStorage {
	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "ImageUpload",
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Printf("Circuit Breaker state changed from %s to %s\n", from, to)
		},
	})

	return &FileStorage{
		endpoint:   cfg.ImageStoreEndpoint,
		publicKey:  cfg.ImageStorePublicKey,
		privateKey: cfg.ImageStorePrivateKey,
		client:     &http.Client{Timeout: 10 * time.Second},
		breaker:    circuitBreaker,
		logger:     logger,
	}
}

func (fs *FileStorage) configured() bool {
	return fs.endpoint != "" &&
		fs.publicKey != "" && !strings.Contains(fs.publicKey, "your_") &&
		fs.privateKey != "" && !strings.Contains(fs.privateKey, "your_")
}

// Upload stores one image file and returns its CDN location. Any failure
// degrades to the local base64 fallback rather than failing the car write.
func (fs *FileStorage) Upload(file domain.CarImageFile, ctx context.Context) domain.CarImage {
	if !fs.configured() {
		return localImage(file)
	}

	result, err := fs.breaker.Execute(func() (interface{}, error) {
		return fs.doUpload(file, ctx)
	})
	if err != nil {
		fs.logger.Println("Image upload failed, falling back to local image:", err)
		return localImage(file)
	}
	return result.(domain.CarImage)
}

// UploadAll uploads every file in order.
func (fs *FileStorage) UploadAll(files []domain.CarImageFile, ctx context.Context) []domain.CarImage {
	if len(files) == 0 {
		return nil
	}
	images := make([]domain.CarImage, 0, len(files))
	for _, file := range files {
		images = append(images, fs.Upload(file, ctx))
	}
	return images
}

func (fs *FileStorage) doUpload(file domain.CarImageFile, ctx context.Context) (domain.CarImage, error) {
	payload := map[string]string{
		"file":     file.Base64,
		"fileName": file.FileName,
		"folder":   "/car-rental/cars",
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return domain.CarImage{}, fmt.Errorf("error marshaling upload JSON: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fs.endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return domain.CarImage{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(fs.privateKey, "")

	resp, err := fs.client.Do(req)
	if err != nil {
		return domain.CarImage{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.CarImage{}, fmt.Errorf("image store returned status %d", resp.StatusCode)
	}

	var uploaded struct {
		URL    string `json:"url"`
		FileID string `json:"fileId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return domain.CarImage{}, err
	}

	return domain.CarImage{URL: uploaded.URL, FileID: uploaded.FileID}, nil
}

func localImage(file domain.CarImageFile) domain.CarImage {
	return domain.CarImage{
		URL:    file.Base64,
		FileID: "local-" + uuid.NewString(),
	}
}
