// Package storage wraps the remote object store that holds attachment bytes.
// The store files every object under one resource type at upload time and exposes a
// separate delete path per type; callers do not always know which type an object
// landed in, which is why deletion is escalated by the deletion package.
package storage

import (
	"context"
	"time"
)

// ResourceType is the store's classification of an uploaded object.
type ResourceType int

const (
	ResourceImage ResourceType = iota
	ResourceRaw
	ResourceVideo
	ResourceGeneric
)

// ResourceTypes lists every resource type in deletion priority order.
var ResourceTypes = []ResourceType{ResourceImage, ResourceRaw, ResourceVideo, ResourceGeneric}

func (r ResourceType) String() string {
	switch r {
	case ResourceImage:
		return "image"
	case ResourceRaw:
		return "raw"
	case ResourceVideo:
		return "video"
	default:
		return "generic"
	}
}

// AccessType is the delivery type an object was stored under.
type AccessType int

const (
	AccessPublic AccessType = iota
	AccessRestricted
	AccessAuthenticated
)

// AccessTypes lists every access type in deletion priority order.
var AccessTypes = []AccessType{AccessPublic, AccessRestricted, AccessAuthenticated}

func (a AccessType) String() string {
	switch a {
	case AccessRestricted:
		return "private"
	case AccessAuthenticated:
		return "authenticated"
	default:
		return "upload"
	}
}

// objectName is the physical name of key under this access type.
func (a AccessType) objectName(key string) string {
	return a.String() + "/" + key
}

// UploadRequest is a transient upload description; it is never persisted.
type UploadRequest struct {
	Namespace    string
	OwnerID      string
	ParentID     string
	OriginalName string
	// DeclaredMIME is what the client sent. It is recorded as metadata only.
	DeclaredMIME string
	Body         []byte
	Sequence     int
	// At is the timestamp used for key derivation; zero means now.
	At time.Time
}

// StoredObject is what the store accepted.
type StoredObject struct {
	URL          string
	StorageKey   string
	Filename     string
	SizeBytes    uint64
	MIMEType     string
	ResourceType ResourceType
}

// DeletionReport is the per-key result of a bulk delete. The store may silently skip keys
// whose resource type differs from the one requested; those show up in NotFound.
type DeletionReport struct {
	Deleted  []string
	NotFound []string
	Failed   map[string]error
}

// Client is the typed boundary to the remote object store.
type Client interface {
	// Upload stores req.Body under a key derived from the request and returns the accepted object.
	Upload(ctx context.Context, req UploadRequest) (StoredObject, error)
	// DestroyOne makes a single attempt against one resource type. It reports false when
	// nothing was deleted there.
	DestroyOne(ctx context.Context, key string, rt ResourceType) (bool, error)
	// DestroyMany bulk-deletes keys from one resource type.
	DestroyMany(ctx context.Context, keys []string, rt ResourceType) (DeletionReport, error)
	// DestroyByPrefix deletes everything under prefix for one resource and access type.
	DestroyByPrefix(ctx context.Context, prefix string, rt ResourceType, at AccessType) (DeletionReport, error)
}
