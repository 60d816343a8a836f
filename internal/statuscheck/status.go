package statuscheck

import (
    "context"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"
)

// RedisPinger models the minimal draft-store capability we need for
// status checks.
type RedisPinger interface {
    Ping(ctx context.Context) error
}

// BucketPinger reports reachability of the remote upload bucket.
type BucketPinger interface {
    Ping(ctx context.Context) error
}

// Checker aggregates health checks for the subsystems shown on the
// admin dashboard.
type Checker struct {
    redis     RedisPinger
    bucket    BucketPinger
    dataDir   string
    uploadDir string
}

// Options configures the Checker. Nil Redis means drafts are held in
// memory; nil Bucket means uploads are stored locally.
type Options struct {
    Redis     RedisPinger
    Bucket    BucketPinger
    DataDir   string
    UploadDir string
}

// Status represents the readiness of a subsystem.
type Status struct {
    OK      bool   `json:"ok"`
    Message string `json:"message"`
}

// Summary bundles all subsystem statuses for the dashboard.
type Summary struct {
    Store   Status `json:"store"`
    Uploads Status `json:"uploads"`
    Drafts  Status `json:"drafts"`
    Bucket  Status `json:"bucket"`
}

// New creates a new Checker with the provided options.
func New(opts Options) *Checker {
    return &Checker{
        redis:     opts.Redis,
        bucket:    opts.Bucket,
        dataDir:   opts.DataDir,
        uploadDir: opts.UploadDir,
    }
}

// Summary returns the current status snapshot.
func (c *Checker) Summary(ctx context.Context) Summary {
    return Summary{
        Store:   c.checkWritable(c.dataDir),
        Uploads: c.checkUploads(ctx),
        Drafts:  c.checkDrafts(ctx),
        Bucket:  c.checkBucket(ctx),
    }
}

// Healthy reports whether every required subsystem is up. Optional
// subsystems (memory drafts, local uploads) never fail the check.
func (c *Checker) Healthy(ctx context.Context) bool {
    s := c.Summary(ctx)
    if !s.Store.OK {
        return false
    }
    if c.redis != nil && !s.Drafts.OK {
        return false
    }
    if c.bucket != nil && !s.Bucket.OK {
        return false
    }
    if c.bucket == nil && !s.Uploads.OK {
        return false
    }
    return true
}

func (c *Checker) checkDrafts(ctx context.Context) Status {
    if c.redis == nil {
        return Status{OK: true, Message: "In-memory"}
    }
    ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
    defer cancel()
    if err := c.redis.Ping(ctx); err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    return Status{OK: true, Message: "Connected"}
}

func (c *Checker) checkBucket(ctx context.Context) Status {
    if c.bucket == nil {
        return Status{OK: true, Message: "Local storage"}
    }
    ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()
    if err := c.bucket.Ping(ctx); err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    return Status{OK: true, Message: "Connected"}
}

func (c *Checker) checkUploads(ctx context.Context) Status {
    if c.bucket != nil {
        return c.checkBucket(ctx)
    }
    return c.checkWritable(c.uploadDir)
}

// checkWritable probes a directory by creating and removing a marker file.
func (c *Checker) checkWritable(dir string) Status {
    if dir == "" {
        return Status{OK: false, Message: "Not configured"}
    }
    probe := filepath.Join(dir, fmt.Sprintf(".probe-%d", time.Now().UnixNano()))
    if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    _ = os.Remove(probe)
    return Status{OK: true, Message: "Writable"}
}

func trimError(err error) string {
    msg := err.Error()
    if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
        msg = msg[:idx]
    }
    if len(msg) > 120 {
        msg = msg[:120]
    }
    return msg
}
