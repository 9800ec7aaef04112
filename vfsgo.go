// Package vfsgo provides an embeddable virtual filesystem open layer for Go.
//
// Vfsgo implements the descriptor-oriented front half of a Unix-style VFS:
// open flag validation, per-process descriptor tables, a shared reference
// counted file object layer, and transactional open with full rollback.
// Path resolution is pluggable behind the vnode.Resolver interface; the
// memfs package ships an in-memory tree with snapshot save/load to local
// disk, S3 or MinIO.
//
// # Quick Start
//
//	ctx := context.Background()
//
//	fs := memfs.New()
//	_ = fs.MkdirAll("/etc")
//	_ = fs.WriteFile("/etc/passwd", []byte("root:x:0:0\n"))
//
//	vfs, _ := vfsgo.New(fs)
//	proc, _ := vfs.NewProcess()
//	defer proc.Exit()
//
//	fd, err := vfs.Open(ctx, proc, "/etc/passwd", oflag.RDONLY)
//	if err != nil {
//	    panic(err)
//	}
//	defer vfs.Close(ctx, proc, fd)
//
// # Open Semantics
//
// Open either fully succeeds, binding a new file object to the lowest free
// descriptor, or fails with no residue: no descriptor consumed, no file
// object leaked, no node reference held. Directories can only be opened
// read-only; a write-mode open of a directory fails with ErrIsDir.
//
// Errors from path resolution (ErrNotExist, ErrNotDir, ErrNameTooLong,
// ErrExist, ErrNoDevice) pass through unchanged; Errno maps the full error
// taxonomy to POSIX errnos on unix builds.
package vfsgo

import (
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/vfsgo/fdtable"
	"github.com/hupe1980/vfsgo/file"
	"github.com/hupe1980/vfsgo/vnode"
)

// VFS is the open-layer coordinator. It owns the shared file object pool
// and creates processes whose descriptor tables it operates on.
type VFS struct {
	resolver vnode.Resolver
	pool     *file.Pool
	metrics  MetricsCollector
	logger   *Logger

	nextPID atomic.Uint64
}

// New creates a VFS on top of the given path resolver.
func New(resolver vnode.Resolver, optFns ...Option) (*VFS, error) {
	if resolver == nil {
		return nil, fmt.Errorf("vfsgo: resolver must not be nil")
	}

	opts := applyOptions(optFns)

	return &VFS{
		resolver: resolver,
		pool:     file.NewPool(opts.res),
		metrics:  opts.metricsCollector,
		logger:   opts.logger,
	}, nil
}

// NewProcess creates a process with an empty descriptor table.
func (v *VFS) NewProcess(optFns ...ProcessOption) (*Process, error) {
	opts := applyProcessOptions(optFns)

	table, err := fdtable.New(opts.tableCapacity)
	if err != nil {
		return nil, err
	}

	return &Process{
		vfs:   v,
		pid:   v.nextPID.Add(1),
		table: table,
		cwd:   opts.cwd,
	}, nil
}

// Pool exposes the shared file object pool, for leak assertions and
// introspection.
func (v *VFS) Pool() *file.Pool {
	return v.pool
}
