package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"quire/internal/config"
	"quire/internal/database"
	"quire/internal/database/migrations"
	"quire/internal/encryption"
	"quire/internal/generate"
	"quire/internal/quire"
	"quire/internal/storage"
)

// ErrKeysNotConfigured is returned by backup commands before `quire keys init`.
var ErrKeysNotConfigured = errors.New("encryption keys not configured (run `quire keys init`)")

// QuireApp is the application layer between the CLI and quire.Service.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw file paths, and manages the DB lifecycle on Close.
type QuireApp struct {
	cfg       *config.Config
	db        *database.SQLiteDatabase
	objects   quire.ObjectStore
	encryptor quire.Encryptor
	service   *quire.Service
	logger    quire.Logger
	clock     quire.Clock
	op        *Operation
	logFile   *os.File
}

// NewQuireApp creates a fully wired QuireApp from the given config.
// operation identifies the CLI command being run (e.g. "EditText", "Backup").
// The caller must call Close when done.
func NewQuireApp(ctx context.Context, cfg *config.Config, operation string) (*QuireApp, error) {
	opID := time.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, opID, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}
	clock := quire.RealClock{}
	ids := quire.UUIDGenerator{}

	fail := func(err error) (*QuireApp, error) {
		logFile.Close()
		return nil, err
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.HostID, clock, ids)
	if err != nil {
		return fail(fmt.Errorf("creating database: %w", err))
	}
	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return fail(fmt.Errorf("database schema out of date (run `quire db migrate`): %w", err))
	}

	objects, err := storage.NewObjectStoreFromConfig(ctx, cfg.Storage)
	if err != nil {
		db.Close()
		return fail(fmt.Errorf("creating object store: %w", err))
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		db.Close()
		return fail(fmt.Errorf("creating encryptor: %w", err))
	}

	gen, err := generate.NewGeneratorFromConfig(cfg.Generator, logger)
	if err != nil {
		// Generation is optional; every other command still works.
		logger.Warn("content generator disabled", "error", err)
	}

	svc := quire.NewService(db, objects, gen, logger, clock, ids)
	return &QuireApp{
		cfg:       cfg,
		db:        db,
		objects:   objects,
		encryptor: enc,
		service:   svc,
		logger:    logger,
		clock:     clock,
		op:        NewOperation(operation, ""),
		logFile:   logFile,
	}, nil
}

// MigrateDatabase opens the configured database without the schema check
// and applies pending migrations.
func MigrateDatabase(cfg *config.Config) (before, after migrations.Status, err error) {
	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.HostID, nil, nil)
	if err != nil {
		return before, after, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if before, err = db.MigrationStatus(); err != nil {
		return before, after, err
	}
	if err = db.MigrateUp(); err != nil {
		return before, after, err
	}
	after, err = db.MigrationStatus()
	return before, after, err
}

// Service exposes the wired service for long-running surfaces like the HTTP server.
func (a *QuireApp) Service() *quire.Service { return a.service }

func (a *QuireApp) Logger() quire.Logger { return a.logger }

// SetParameters records the arguments the operation was invoked with.
func (a *QuireApp) SetParameters(params ...string) {
	a.op.Parameters = strings.Join(params, " ")
}

// Fail marks the current operation as failed when err is non-nil.
func (a *QuireApp) Fail(err error) {
	a.op.Fail(err)
}

// persistOperation saves the operation to the database, giving it an auto-increment ID.
// This should only be called for DB-mutating commands.
func (a *QuireApp) persistOperation(ctx context.Context) error {
	if a.op.Persisted() {
		return nil
	}
	rec, err := a.db.CreateOperation(ctx, a.op.Name, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = rec.ID
	return nil
}

func (a *QuireApp) ListDocuments(ctx context.Context) ([]*quire.Document, error) {
	return a.service.ListDocuments(ctx)
}

func (a *QuireApp) CreateDocument(ctx context.Context, name, description string) (*quire.Document, error) {
	if err := a.persistOperation(ctx); err != nil {
		return nil, err
	}
	return a.service.CreateDocument(ctx, name, description)
}

func (a *QuireApp) UpdateMetadata(ctx context.Context, id string, fields quire.DocumentFields) (*quire.Document, error) {
	if err := a.persistOperation(ctx); err != nil {
		return nil, err
	}
	return a.service.UpdateMetadata(ctx, id, fields)
}

// ShowDocument writes the document to w as "text", "html" or "json".
func (a *QuireApp) ShowDocument(ctx context.Context, id, format string, w io.Writer) error {
	switch format {
	case "", "text":
		text, err := a.service.ExportText(ctx, id)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err
	case "html":
		return a.service.RenderHTML(ctx, id, w)
	case "json":
		doc, err := a.service.GetDocument(ctx, id)
		if err != nil {
			return err
		}
		return writeJSON(w, doc)
	default:
		return fmt.Errorf("unknown format %q (want text, html or json)", format)
	}
}

// EditFromFile replaces the document's text with the contents of path.
// A path of "-" reads standard input.
func (a *QuireApp) EditFromFile(ctx context.Context, id, path string) (*quire.Document, error) {
	text, err := readInput(path)
	if err != nil {
		return nil, err
	}
	if err := a.persistOperation(ctx); err != nil {
		return nil, err
	}
	return a.service.EditText(ctx, id, text)
}

// AppendFromFile appends the blocks parsed from path and returns them.
func (a *QuireApp) AppendFromFile(ctx context.Context, id, path string) ([]quire.Block, error) {
	text, err := readInput(path)
	if err != nil {
		return nil, err
	}
	if err := a.persistOperation(ctx); err != nil {
		return nil, err
	}
	_, added, err := a.service.AppendText(ctx, id, text)
	return added, err
}

func (a *QuireApp) RemoveBlock(ctx context.Context, id, blockID string) error {
	if err := a.persistOperation(ctx); err != nil {
		return err
	}
	_, err := a.service.RemoveBlock(ctx, id, blockID)
	return err
}

// AddImage uploads the file at rawPath and appends an image block for it.
func (a *QuireApp) AddImage(ctx context.Context, id, rawPath string, attrs quire.ImageAttrs) (*quire.ImageRecord, error) {
	f, err := os.Open(rawPath)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if err := a.persistOperation(ctx); err != nil {
		return nil, err
	}

	// An unknown extension yields "", and the service sniffs the content.
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(rawPath)))
	_, rec, err := a.service.AddImage(ctx, id, filepath.Base(rawPath), contentType, f, info.Size(), attrs)
	return rec, err
}

func (a *QuireApp) ListImages(ctx context.Context, id string) ([]*quire.ImageRecord, error) {
	return a.service.ListImages(ctx, id)
}

func (a *QuireApp) Generate(ctx context.Context, input, documentID string) (*quire.GenerateResult, error) {
	if err := a.persistOperation(ctx); err != nil {
		return nil, err
	}
	return a.service.Generate(ctx, input, documentID)
}

// GetHistory returns the most recent operations.
func (a *QuireApp) GetHistory(ctx context.Context, limit int) ([]*quire.Operation, error) {
	return a.service.GetHistory(ctx, limit)
}

// CheckStorage verifies the object store is reachable and writable.
func (a *QuireApp) CheckStorage(ctx context.Context) error {
	if err := a.objects.ValidateSetup(ctx); err != nil {
		return fmt.Errorf("object store %q: %w", a.cfg.Storage.Name, err)
	}
	return nil
}

// SetupKeys generates the backup key pair.
func (a *QuireApp) SetupKeys(passphrase string) error {
	return a.encryptor.Setup(passphrase)
}

// Backup snapshots the database, encrypts it and uploads it to the object
// store. It returns the key the backup was stored under.
func (a *QuireApp) Backup(ctx context.Context) (string, error) {
	if !a.encryptor.IsConfigured() {
		return "", ErrKeysNotConfigured
	}
	if err := a.persistOperation(ctx); err != nil {
		return "", err
	}

	tmpDir, err := os.MkdirTemp("", "quire-backup-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for db backup: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	// VACUUM INTO refuses to overwrite, so the snapshot path must not exist yet.
	snapshot := filepath.Join(tmpDir, "snapshot.db")
	if err := a.db.BackupTo(snapshot); err != nil {
		return "", err
	}

	encrypted := filepath.Join(tmpDir, "snapshot.db.age")
	if err := encryptFile(a.encryptor, snapshot, encrypted); err != nil {
		return "", err
	}

	key := path.Join("backups", a.cfg.HostID, a.clock.Now().Format("20060102T150405Z")+".db.age")
	if err := a.upload(ctx, key, encrypted); err != nil {
		return "", err
	}
	a.logger.Info("database backup uploaded", "key", key)
	return key, nil
}

// Restore downloads the backup stored under key, decrypts it with the
// private key unlocked by passphrase and writes it to dest, which must not
// exist.
func (a *QuireApp) Restore(ctx context.Context, key, dest, passphrase string) error {
	if !a.encryptor.IsConfigured() {
		return ErrKeysNotConfigured
	}
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("restore destination already exists: %s", dest)
	}

	dc, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return fmt.Errorf("unlocking private key: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".quire-restore-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(a.objects.Get(ctx, key, pw))
	}()
	if err := dc.Decrypt(pr, tmp); err != nil {
		pr.CloseWithError(err)
		tmp.Close()
		return fmt.Errorf("restoring %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing restored file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("moving restored database into place: %w", err)
	}
	a.logger.Info("database backup restored", "key", key, "dest", dest)
	return nil
}

func (a *QuireApp) upload(ctx context.Context, key, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("opening backup for upload: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat backup: %w", err)
	}
	if err := a.objects.Put(ctx, key, "application/octet-stream", f, info.Size()); err != nil {
		return fmt.Errorf("uploading backup: %w", err)
	}
	return nil
}

// Close finalizes the operation record and closes all resources.
func (a *QuireApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.db.FinishOperation(context.Background(), a.op.ID, a.op.Status); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
	}

	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
