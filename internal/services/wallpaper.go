package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sam4007/studylink-backend/internal/chat"
	appconfig "github.com/sam4007/studylink-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// WallpaperService hands out pre-signed PUT URLs for wallpaper source
// images. The cropped result stays on the device; only the original goes
// to S3 so other devices can re-crop it.
type WallpaperService struct {
	friends  *FriendService
	s3Client *s3.Client
	s3Bucket string
}

// NewWallpaperService creates a new wallpaper service
func NewWallpaperService(friends *FriendService, cfg appconfig.AWSConfig) (*WallpaperService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &WallpaperService{
		friends:  friends,
		s3Client: s3Client,
		s3Bucket: cfg.S3Bucket,
	}, nil
}

// UploadResponse carries the pre-signed URL back to the client
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
	ExpiresIn int    `json:"expires_in"`
}

// GetPreSignedURL issues a pre-signed PUT for a wallpaper original,
// keyed under the conversation so both participants' devices can find it.
func (s *WallpaperService) GetPreSignedURL(ctx context.Context, userID, friendID, contentType string) (*UploadResponse, error) {
	areFriends, err := s.friends.AreFriends(ctx, userID, friendID)
	if err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}
	if !areFriends {
		return nil, fmt.Errorf("receiver is not a friend")
	}

	key := fmt.Sprintf("wallpapers/%s/%s.jpg", chat.ConversationID(userID, friendID), uuid.New().String())

	presignClient := s3.NewPresignClient(s.s3Client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = 5 * time.Minute
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &UploadResponse{
		UploadURL: request.URL,
		ObjectKey: key,
		ExpiresIn: 300,
	}, nil
}
