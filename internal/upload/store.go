package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	headerContentType = "Content-Type"
	headerFilename    = "X-Filename"
)

// ObjectStore - внешнее хранилище файлов
type ObjectStore interface {
	Put(ctx context.Context, name string, data []byte, meta ObjectInfo) (*ObjectInfo, error)
	Get(ctx context.Context, name string) ([]byte, *ObjectInfo, error)
}

type ObjectInfo struct {
	Name        string
	Filename    string
	Size        uint64
	ContentType string
	ModTime     time.Time
}

func infoFromHeaders(name string, size uint64, modTime time.Time, headers nats.Header) *ObjectInfo {
	info := &ObjectInfo{
		Name:        name,
		Size:        size,
		ContentType: defaultContentType,
		ModTime:     modTime,
	}
	if headers != nil {
		if ct := headers.Get(headerContentType); ct != "" {
			info.ContentType = ct
		}
		info.Filename = headers.Get(headerFilename)
	}
	return info
}

// JetStreamStore хранит файлы в NATS JetStream Object Store
type JetStreamStore struct {
	conn       *nats.Conn
	js         jetstream.JetStream
	store      jetstream.ObjectStore
	bucketName string
}

func NewJetStreamStore(natsURL, bucketName string) (*JetStreamStore, error) {
	conn, err := nats.Connect(natsURL, nats.Name("voxus-uploads"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &JetStreamStore{
		conn:       conn,
		js:         js,
		bucketName: bucketName,
	}, nil
}

// Init открывает бакет, создавая его при необходимости
func (s *JetStreamStore) Init(ctx context.Context) error {
	store, err := s.js.ObjectStore(ctx, s.bucketName)
	if err == nil {
		s.store = store
		return nil
	}

	store, err = s.js.CreateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:      s.bucketName,
		Description: "Chat attachments",
	})
	if err != nil {
		return fmt.Errorf("failed to create object store bucket: %w", err)
	}

	s.store = store
	return nil
}

func (s *JetStreamStore) Put(ctx context.Context, name string, data []byte, meta ObjectInfo) (*ObjectInfo, error) {
	objMeta := jetstream.ObjectMeta{
		Name: name,
		Headers: nats.Header{
			headerContentType: []string{meta.ContentType},
			headerFilename:    []string{meta.Filename},
		},
	}

	info, err := s.store.Put(ctx, objMeta, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to store object: %w", err)
	}
	return infoFromHeaders(info.Name, info.Size, info.ModTime, objMeta.Headers), nil
}

func (s *JetStreamStore) Get(ctx context.Context, name string) ([]byte, *ObjectInfo, error) {
	result, err := s.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, jetstream.ErrObjectNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer result.Close()

	data, err := io.ReadAll(result)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read object data: %w", err)
	}

	info, err := result.Info()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get object info: %w", err)
	}
	return data, infoFromHeaders(info.Name, info.Size, info.ModTime, info.Headers), nil
}

func (s *JetStreamStore) Close() error {
	if s.conn != nil {
		return s.conn.Drain()
	}
	return nil
}
