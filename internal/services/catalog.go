package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cafeconnect/internal/models"
	"cafeconnect/internal/repositories"
)

// UpdateMode selects how an update payload is applied to a stored document.
type UpdateMode int

const (
	// UpdateFull rebuilds the document from defaults plus the payload (PUT).
	UpdateFull UpdateMode = iota
	// UpdatePartial merges the payload onto the stored document (PATCH).
	UpdatePartial
)

// Decoder fills dst from a request payload, e.g. fiber.Ctx.BodyParser.
type Decoder func(dst any) error

type document[T any] interface {
	models.Document[T]
	Normalize()
}

// hook runs against a document about to be written. existing is nil on create.
type hook[T any] func(ctx context.Context, doc, existing *T) error

// catalog implements the create/read/update/delete flow shared by every entity:
// defaults, normalisation, validation, then persistence.
type catalog[T any, P document[T]] struct {
	repo   repositories.Repository[T]
	newDoc func() *T
	// prepare runs before validation, finalize after it.
	prepare  hook[T]
	finalize hook[T]
}

func (c *catalog[T, P]) list(ctx context.Context) ([]T, error) {
	return c.repo.GetAll(ctx)
}

func (c *catalog[T, P]) get(ctx context.Context, id string) (*T, error) {
	return c.repo.GetByID(ctx, id)
}

func (c *catalog[T, P]) create(ctx context.Context, decode Decoder) (*T, error) {
	doc := c.newDoc()
	if err := decode(doc); err != nil {
		return nil, models.InvalidPayload(err)
	}
	// identity and timestamps are always server-assigned
	P(doc).SetID("")
	P(doc).SetTimestamps(time.Time{}, time.Time{})
	return c.insert(ctx, doc)
}

// insert writes a document built in code rather than decoded from a request.
func (c *catalog[T, P]) insert(ctx context.Context, doc *T) (*T, error) {
	if err := c.check(ctx, doc, nil); err != nil {
		return nil, err
	}
	if err := c.repo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *catalog[T, P]) update(ctx context.Context, id string, mode UpdateMode, decode Decoder) (*T, error) {
	existing, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var doc *T
	if mode == UpdatePartial {
		if doc, err = clone(existing); err != nil {
			return nil, err
		}
	} else {
		doc = c.newDoc()
	}
	if err := decode(doc); err != nil {
		return nil, models.InvalidPayload(err)
	}
	P(doc).SetID(id)
	P(doc).SetTimestamps(P(existing).GetCreatedAt(), time.Time{})

	return c.replace(ctx, doc, existing)
}

// replace writes doc over existing after the usual checks.
func (c *catalog[T, P]) replace(ctx context.Context, doc, existing *T) (*T, error) {
	if err := c.check(ctx, doc, existing); err != nil {
		return nil, err
	}
	if err := c.repo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *catalog[T, P]) remove(ctx context.Context, id string) (*T, error) {
	return c.repo.Delete(ctx, id)
}

func (c *catalog[T, P]) check(ctx context.Context, doc, existing *T) error {
	P(doc).Normalize()
	if c.prepare != nil {
		if err := c.prepare(ctx, doc, existing); err != nil {
			return err
		}
	}
	if err := models.Validate(doc); err != nil {
		return err
	}
	if c.finalize != nil {
		return c.finalize(ctx, doc, existing)
	}
	return nil
}

// clone deep-copies a stored document so a partial payload can be merged onto it
// without touching slices shared with the repository.
func clone[T any](doc *T) (*T, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to copy document: %w", err)
	}
	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("failed to copy document: %w", err)
	}
	return out, nil
}
