package services

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	cloudinaryBaseURL = "https://api.cloudinary.com/v1_1"
	maxImageDimension = 1600
)

// UploadResult carries the fields the rest of the app stores for an asset.
type UploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// CloudinaryService talks to the Cloudinary upload API with signed requests.
type CloudinaryService struct {
	cloudName string
	apiKey    string
	apiSecret string
	client    *http.Client
}

func NewCloudinaryService() *CloudinaryService {
	return &CloudinaryService{
		cloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		apiKey:    os.Getenv("CLOUDINARY_API_KEY"),
		apiSecret: os.Getenv("CLOUDINARY_API_SECRET"),
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether credentials are present. Handlers skip photo
// processing entirely when the CDN is not set up.
func (s *CloudinaryService) Configured() bool {
	return s.cloudName != "" && s.apiKey != "" && s.apiSecret != ""
}

// Upload downscales the image when oversized, then pushes it to the given
// folder under a random public ID.
func (s *CloudinaryService) Upload(data []byte, folder string) (*UploadResult, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("cloudinary credentials are not configured")
	}

	processed, err := downscaleImage(data)
	if err != nil {
		// Not decodable as an image we recognize; send the raw bytes and
		// let the CDN reject it if it must
		processed = data
	}

	publicID := uuid.New().String()
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	params := map[string]string{
		"folder":    folder,
		"public_id": publicID,
		"timestamp": timestamp,
	}
	signature := s.sign(params)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", publicID)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(processed); err != nil {
		return nil, err
	}

	for k, v := range params {
		if err := writer.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	writer.WriteField("api_key", s.apiKey)
	writer.WriteField("signature", signature)

	if err := writer.Close(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", cloudinaryBaseURL, s.cloudName)
	req, err := http.NewRequest(http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cloudinary upload failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse cloudinary response: %w", err)
	}

	return &result, nil
}

// Delete removes an asset by public ID. A missing asset is not an error.
func (s *CloudinaryService) Delete(publicID string) error {
	if !s.Configured() || publicID == "" {
		return nil
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}
	signature := s.sign(params)

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", timestamp)
	form.Set("api_key", s.apiKey)
	form.Set("signature", signature)

	endpoint := fmt.Sprintf("%s/%s/image/destroy", cloudinaryBaseURL, s.cloudName)
	resp, err := s.client.PostForm(endpoint, form)
	if err != nil {
		return fmt.Errorf("cloudinary destroy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("cloudinary destroy failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// sign builds the Cloudinary request signature: parameters sorted by key,
// joined with &, then the API secret appended and the whole thing SHA-1'd.
func (s *CloudinaryService) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	h := sha1.Sum([]byte(strings.Join(pairs, "&") + s.apiSecret))
	return hex.EncodeToString(h[:])
}

func downscaleImage(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() <= maxImageDimension && bounds.Dy() <= maxImageDimension {
		return data, nil
	}

	resized := imaging.Fit(img, maxImageDimension, maxImageDimension, imaging.Lanczos)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = imaging.Encode(&buf, resized, imaging.PNG)
	case "gif":
		err = imaging.Encode(&buf, resized, imaging.GIF)
	default:
		err = imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(85))
	}
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
