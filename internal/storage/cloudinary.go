package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cloudinary stores files in a Cloudinary account. Stored ids have the form
// "<resource_type>/<public_id>" because destroy needs the resource type back.
type Cloudinary struct {
	cld        *cloudinary.Cloudinary
	rootFolder string
	logger     *zap.Logger
}

func NewCloudinary(cloudinaryURL, rootFolder string, logger ...*zap.Logger) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}

	l := zap.L().Named("storage.cloudinary")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("storage.cloudinary")
	}
	return &Cloudinary{cld: cld, rootFolder: rootFolder, logger: l}, nil
}

func (c *Cloudinary) Store(ctx context.Context, obj Object) (StoredObject, error) {
	if len(obj.Data) == 0 {
		return StoredObject{}, fmt.Errorf("%w: empty file", ErrRejected)
	}

	key := obj.Key
	if key == "" {
		key = KeyFor(obj.Filename)
	}

	resp, err := c.cld.Upload.Upload(ctx, bytes.NewReader(obj.Data), uploader.UploadParams{
		Folder:       path.Join(c.rootFolder, obj.Folder),
		PublicID:     key,
		Overwrite:    api.Bool(true),
		ResourceType: "auto",
	})
	if err != nil {
		return StoredObject{}, err
	}
	if resp.Error.Message != "" {
		c.logger.Warn("cloudinary upload rejected",
			zap.String("filename", obj.Filename),
			zap.String("reason", resp.Error.Message),
		)
		return StoredObject{}, fmt.Errorf("%w: %s", ErrRejected, resp.Error.Message)
	}

	return StoredObject{
		URL:      resp.SecureURL,
		StoredID: resp.ResourceType + "/" + resp.PublicID,
	}, nil
}

func (c *Cloudinary) Delete(ctx context.Context, storedID string) error {
	resourceType, publicID, ok := strings.Cut(storedID, "/")
	if !ok || publicID == "" {
		return fmt.Errorf("%w: malformed stored id %q", ErrRejected, storedID)
	}

	resp, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
		Invalidate:   api.Bool(true),
	})
	if err != nil {
		return err
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %s: %s", storedID, resp.Error.Message)
	}
	// "not found" is fine: the object is already gone
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy %s: unexpected result %q", storedID, resp.Result)
	}
	return nil
}

// KeyFor keeps the original base name readable and makes it unique. Each
// call returns a new key.
func KeyFor(filename string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		base = "document"
	}
	return base + "_" + uuid.NewString()[:8]
}
