package controller

import (
	"context"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/phishguard/internal/api"
	"github.com/nao1215/phishguard/internal/render"
)

// UploadTrainingData posts a training CSV and reports through a notice.
// A nil file is still posted so the server can report the missing file.
func (c *Controller) UploadTrainingData(ctx context.Context, file *api.Upload) error {
	resp, err := c.api.UploadCSV(ctx, file)
	if err != nil {
		c.fail("Upload", err)
		return err
	}

	name := resp.Filename
	if name == "" && file != nil {
		name = file.Name
	}
	msg := "uploaded " + name
	if file != nil {
		msg += fmt.Sprintf(" (%d bytes, sha3-256 %s)", len(file.Data), Digest(file.Data))
	}
	c.notify(render.Success("Upload", msg))
	return nil
}

// RetrainModel asks the server to retrain and reports through a notice.
func (c *Controller) RetrainModel(ctx context.Context) error {
	resp, err := c.api.Retrain(ctx)
	if err != nil {
		c.fail("Retrain", err)
		return err
	}
	msg := "model retrained"
	if resp.Status != "" && resp.Status != "ok" {
		msg = resp.Status
	}
	c.notify(render.Success("Retrain", msg))
	return nil
}

// Digest returns the first 16 hex characters of the SHA3-256 of data,
// enough to tell uploads apart in notices and logs.
func Digest(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}
