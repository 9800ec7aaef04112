package memfs

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/vfsgo/blobstore"
	"github.com/hupe1980/vfsgo/codec"
	"github.com/hupe1980/vfsgo/resource"
	"github.com/hupe1980/vfsgo/vnode"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the snapshot payload compression algorithm.
type Compression uint8

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone Compression = 0
	// CompressionZSTD compresses with zstd (better ratio).
	CompressionZSTD Compression = 1
	// CompressionLZ4 compresses with LZ4 (faster).
	CompressionLZ4 Compression = 2
)

// Snapshot format:
//
//	[Magic:4 "VFSG"][Version:1][CodecNameLen:1][CodecName:N][Compression:1][Payload...]
//
// The payload is the codec-encoded image tree, compressed per the header
// byte. Images are self-describing: loading selects the codec by the stored
// name, so the writer's default codec never matters to the reader.
var snapshotMagic = [4]byte{'V', 'F', 'S', 'G'}

const snapshotVersion = 1

// ErrBadSnapshot is returned when a snapshot image cannot be decoded.
var ErrBadSnapshot = errors.New("memfs: bad snapshot image")

type imageNode struct {
	Type     vnode.Type            `json:"type"`
	Data     []byte                `json:"data,omitempty"`
	DevID    uint32                `json:"dev_id,omitempty"`
	Children map[string]*imageNode `json:"children,omitempty"`
}

type image struct {
	Root    *imageNode `json:"root"`
	Devices []uint32   `json:"devices,omitempty"`
}

func exportNode(n *node) *imageNode {
	in := &imageNode{Type: n.typ, DevID: n.devID}
	if n.typ == vnode.TypeRegular && len(n.data) > 0 {
		in.Data = append([]byte(nil), n.data...)
	}
	if n.typ == vnode.TypeDirectory {
		in.Children = make(map[string]*imageNode, len(n.children))
		for name, child := range n.children {
			in.Children[name] = exportNode(child)
		}
	}
	return in
}

func importNode(in *imageNode, name string, parent *node) (*node, error) {
	switch in.Type {
	case vnode.TypeDirectory:
		n := newDir(name, parent)
		for childName, child := range in.Children {
			c, err := importNode(child, childName, n)
			if err != nil {
				return nil, err
			}
			n.children[childName] = c
		}
		return n, nil
	case vnode.TypeRegular:
		n := newRegular(name, parent)
		n.data = append([]byte(nil), in.Data...)
		return n, nil
	case vnode.TypeDevice:
		return newDevice(name, parent, in.DevID), nil
	default:
		return nil, fmt.Errorf("%w: unknown node type %d", ErrBadSnapshot, in.Type)
	}
}

// SaveToWriter writes a snapshot image of the whole tree. Snapshot IO runs
// through the FS's resource controller, if one is configured.
func (fs *FS) SaveToWriter(ctx context.Context, w io.Writer) error {
	fs.mu.Lock()
	img := image{Root: exportNode(fs.root)}
	for devID, attached := range fs.devices {
		if attached {
			img.Devices = append(img.Devices, devID)
		}
	}
	fs.mu.Unlock()

	payload, err := fs.opts.codec.Marshal(&img)
	if err != nil {
		return fmt.Errorf("memfs: encode snapshot: %w", err)
	}

	out := resource.NewRateLimitedWriter(ctx, w, fs.opts.res)

	codecName := fs.opts.codec.Name()
	header := make([]byte, 0, 7+len(codecName))
	header = append(header, snapshotMagic[:]...)
	header = append(header, snapshotVersion, byte(len(codecName)))
	header = append(header, codecName...)
	header = append(header, byte(fs.opts.compression))
	if _, err := out.Write(header); err != nil {
		return err
	}

	switch fs.opts.compression {
	case CompressionZSTD:
		enc, err := zstd.NewWriter(out)
		if err != nil {
			return err
		}
		if _, err := enc.Write(payload); err != nil {
			_ = enc.Close()
			return err
		}
		return enc.Close()
	case CompressionLZ4:
		enc := lz4.NewWriter(out)
		if _, err := enc.Write(payload); err != nil {
			_ = enc.Close()
			return err
		}
		return enc.Close()
	default:
		_, err := out.Write(payload)
		return err
	}
}

// LoadFromReader reconstructs a filesystem from a snapshot image.
// The given options apply to the new FS; the payload codec is selected from
// the image header, not from the options.
func LoadFromReader(ctx context.Context, r io.Reader, optFns ...Option) (*FS, error) {
	fs := New(optFns...)
	in := resource.NewRateLimitedReader(ctx, r, fs.opts.res)

	var magic [4]byte
	if _, err := io.ReadFull(in, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	if magic != snapshotMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadSnapshot, magic[:])
	}

	var version, nameLen byte
	if err := binary.Read(in, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadSnapshot, version)
	}
	if err := binary.Read(in, binary.LittleEndian, &nameLen); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	nameBytes := make([]byte, nameLen)
	if _, err := io.ReadFull(in, nameBytes); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	c, ok := codec.ByName(string(nameBytes))
	if !ok {
		return nil, fmt.Errorf("%w: unknown codec %q", ErrBadSnapshot, nameBytes)
	}

	var compression byte
	if err := binary.Read(in, binary.LittleEndian, &compression); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}

	var payload []byte
	switch Compression(compression) {
	case CompressionZSTD:
		dec, err := zstd.NewReader(in)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
		}
		defer dec.Close()
		payload, err = io.ReadAll(dec)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
		}
	case CompressionLZ4:
		var err error
		payload, err = io.ReadAll(lz4.NewReader(in))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
		}
	case CompressionNone:
		var err error
		payload, err = io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrBadSnapshot, compression)
	}

	var img image
	if err := c.Unmarshal(payload, &img); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	if img.Root == nil || img.Root.Type != vnode.TypeDirectory {
		return nil, fmt.Errorf("%w: missing root directory", ErrBadSnapshot)
	}

	root, err := importNode(img.Root, "", nil)
	if err != nil {
		return nil, err
	}
	fs.root = root
	for _, devID := range img.Devices {
		fs.devices[devID] = true
	}
	return fs, nil
}

// SaveToStore writes a snapshot image to a blob store under the given name.
func (fs *FS) SaveToStore(ctx context.Context, store blobstore.Store, name string) error {
	var buf bytes.Buffer
	if err := fs.SaveToWriter(ctx, &buf); err != nil {
		return err
	}
	return store.Put(ctx, name, buf.Bytes())
}

// LoadFromStore reconstructs a filesystem from a snapshot blob.
func LoadFromStore(ctx context.Context, store blobstore.Store, name string, optFns ...Option) (*FS, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(blob)
	if err != nil {
		return nil, err
	}
	return LoadFromReader(ctx, bytes.NewReader(data), optFns...)
}
