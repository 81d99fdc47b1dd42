package db

import (
	"context"
	"time"

	"github.com/prasetyowira/qrlink/constant"
	"github.com/prasetyowira/qrlink/domain/qrlink"
	appLogger "github.com/prasetyowira/qrlink/infrastructure/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// SQLiteRepository implements both qrlink.Repository and
// qrlink.ArtifactRepository over one connection.
type SQLiteRepository struct {
	db *gorm.DB
}

// CodeModel is the GORM model for the Code entity. Style knobs are
// flattened into columns so the row stays queryable without JSON
// gymnastics.
type CodeModel struct {
	ID          uint   `gorm:"primaryKey"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Destination string `gorm:"not null"`
	Label       string
	Foreground  string
	Background  string
	Level       string
	QuietZone   int
	ModuleShape string
	EyeShape    string
	LogoRatio   float64
	LogoDataURI string `gorm:"column:logo_data_uri"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Scans       uint
}

// ArtifactModel is the GORM model for cached exports. (slug, format,
// width) identifies one artifact; the style hash fences staleness.
type ArtifactModel struct {
	ID        uint   `gorm:"primaryKey"`
	Slug      string `gorm:"index:idx_artifact_key,unique;not null"`
	Format    string `gorm:"index:idx_artifact_key,unique;not null"`
	Width     int    `gorm:"index:idx_artifact_key,unique"`
	StyleHash string `gorm:"not null"`
	Bytes     []byte
	CreatedAt time.Time
}

// GormLogger implements GORM's logger.Interface
type GormLogger struct{}

// LogMode implements the log.Interface method
func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	return l
}

// Info logs info messages
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxInfo(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Warn logs warn messages
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxWarn(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Error logs error messages
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxError(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeDBGeneral,
			Message: msg,
			Type:    constant.ErrTypeDB,
		},
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Trace logs SQL operations
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil {
		appLogger.CtxError(ctx, "SQL error", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBGeneral,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataElapsed: elapsed.String(),
				constant.DataRows:    rows,
				constant.DataSQL:     sql,
			},
		})
		return
	}

	// Only log SQL queries if in debug mode
	appLogger.CtxDebug(ctx, "SQL query", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataElapsed: elapsed.String(),
			constant.DataRows:    rows,
			constant.DataSQL:     sql,
		},
	})
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	ctx := appLogger.NewRequestContext()

	appLogger.CtxDebug(ctx, "Opening SQLite database", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataPath: dbPath,
		},
	})

	dbLogger := &GormLogger{}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		appLogger.CtxError(ctx, "Failed to open database", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBOpen,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataPath: dbPath,
			},
		})
		return nil, err
	}

	// Auto-migrate the schema
	if err := db.AutoMigrate(&CodeModel{}, &ArtifactModel{}); err != nil {
		appLogger.CtxError(ctx, "Failed to migrate database schema", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBMigrate,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return nil, err
	}

	appLogger.CtxInfo(ctx, "Database initialized successfully", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataPath: dbPath,
		},
	})

	return &SQLiteRepository{db: db}, nil
}

// Store persists a code to the database
func (r *SQLiteRepository) Store(ctx context.Context, code *qrlink.Code) error {
	// Check if the slug is already taken
	var count int64
	err := r.db.Raw(`SELECT COUNT(*) FROM code_models WHERE slug = ?`, code.Slug).Count(&count).Error
	if err != nil {
		appLogger.CtxError(ctx, "Error checking for existing slug", appLogger.LoggerInfo{
			ContextFunction: constant.CtxStore,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBCheckExists,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataSlug: code.Slug,
			},
		})
		return err
	}

	if count > 0 {
		appLogger.CtxWarn(ctx, "Slug already exists", appLogger.LoggerInfo{
			ContextFunction: constant.CtxStore,
			Data: map[string]interface{}{
				constant.DataSlug: code.Slug,
			},
		})
		return qrlink.ErrSlugExists
	}

	now := time.Now()
	result := r.db.Exec(
		`INSERT INTO code_models
		 (slug, destination, label, foreground, background, level, quiet_zone, module_shape, eye_shape, logo_ratio, logo_data_uri, created_at, updated_at, scans)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		code.Slug, code.Destination, code.Label,
		code.Style.Foreground, code.Style.Background, code.Style.Level,
		code.Style.QuietZone, code.Style.ModuleShape, code.Style.EyeShape,
		code.Style.LogoRatio, code.LogoDataURI,
		code.CreatedAt, now, code.Scans,
	)

	if result.Error != nil {
		appLogger.CtxError(ctx, "Failed to insert code", appLogger.LoggerInfo{
			ContextFunction: constant.CtxStore,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBInsert,
				Message: result.Error.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataSlug:        code.Slug,
				constant.DataDestination: code.Destination,
			},
		})
		return result.Error
	}

	var id uint
	if err := r.db.Raw(`SELECT id FROM code_models WHERE slug = ?`, code.Slug).Scan(&id).Error; err == nil {
		code.ID = id
	}
	code.UpdatedAt = now

	appLogger.CtxInfo(ctx, "Code stored successfully", appLogger.LoggerInfo{
		ContextFunction: constant.CtxStore,
		Data: map[string]interface{}{
			constant.DataSlug:        code.Slug,
			constant.DataDestination: code.Destination,
		},
	})

	return nil
}

// FindBySlug retrieves a code by its slug. A missing row maps to
// qrlink.ErrSlugNotFound.
func (r *SQLiteRepository) FindBySlug(ctx context.Context, slug string) (*qrlink.Code, error) {
	var model CodeModel

	appLogger.CtxDebug(ctx, "Looking up slug", appLogger.LoggerInfo{
		ContextFunction: constant.CtxFindBySlug,
		Data: map[string]interface{}{
			constant.DataSlug: slug,
		},
	})

	rows, err := r.db.Raw(
		`SELECT id, slug, destination, label, foreground, background, level, quiet_zone, module_shape, eye_shape, logo_ratio, logo_data_uri, created_at, updated_at, scans
		 FROM code_models WHERE slug = ? LIMIT 1`, slug).Rows()
	if err != nil {
		appLogger.CtxError(ctx, "Database error while looking up slug", appLogger.LoggerInfo{
			ContextFunction: constant.CtxFindBySlug,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		appLogger.CtxInfo(ctx, "Slug not found", appLogger.LoggerInfo{
			ContextFunction: constant.CtxFindBySlug,
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
		return nil, qrlink.ErrSlugNotFound
	}

	if err := r.db.ScanRows(rows, &model); err != nil {
		appLogger.CtxError(ctx, "Failed to scan database rows", appLogger.LoggerInfo{
			ContextFunction: constant.CtxFindBySlug,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBScanRows,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
		return nil, err
	}

	if err := rows.Err(); err != nil {
		appLogger.CtxError(ctx, "Row iteration error", appLogger.LoggerInfo{
			ContextFunction: constant.CtxFindBySlug,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBRowIterate,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
		return nil, err
	}

	appLogger.CtxDebug(ctx, "Slug found", appLogger.LoggerInfo{
		ContextFunction: constant.CtxFindBySlug,
		Data: map[string]interface{}{
			constant.DataSlug:        slug,
			constant.DataDestination: model.Destination,
			constant.DataScans:       model.Scans,
		},
	})

	return modelToCode(&model), nil
}

// ListAll returns every code, newest first.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]*qrlink.Code, error) {
	appLogger.CtxDebug(ctx, "Listing all codes", appLogger.LoggerInfo{
		ContextFunction: constant.CtxListAll,
	})

	rows, err := r.db.Raw(
		`SELECT id, slug, destination, label, foreground, background, level, quiet_zone, module_shape, eye_shape, logo_ratio, logo_data_uri, created_at, updated_at, scans
		 FROM code_models ORDER BY created_at DESC`).Rows()
	if err != nil {
		appLogger.CtxError(ctx, "Database error while listing codes", appLogger.LoggerInfo{
			ContextFunction: constant.CtxListAll,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return nil, err
	}
	defer rows.Close()

	codes := []*qrlink.Code{}
	for rows.Next() {
		var model CodeModel
		if err := r.db.ScanRows(rows, &model); err != nil {
			appLogger.CtxError(ctx, "Failed to scan database rows", appLogger.LoggerInfo{
				ContextFunction: constant.CtxListAll,
				Error: &appLogger.CustomError{
					Code:    constant.ErrCodeDBScanRows,
					Message: err.Error(),
					Type:    constant.ErrTypeDB,
				},
			})
			return nil, err
		}
		codes = append(codes, modelToCode(&model))
	}

	if err := rows.Err(); err != nil {
		appLogger.CtxError(ctx, "Row iteration error", appLogger.LoggerInfo{
			ContextFunction: constant.CtxListAll,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBRowIterate,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return nil, err
	}

	appLogger.CtxDebug(ctx, "Codes listed", appLogger.LoggerInfo{
		ContextFunction: constant.CtxListAll,
		Data: map[string]interface{}{
			constant.DataRows: len(codes),
		},
	})

	return codes, nil
}

// UpdateDestination updates the destination for an existing slug
func (r *SQLiteRepository) UpdateDestination(ctx context.Context, slug, destination string) error {
	appLogger.CtxDebug(ctx, "Updating destination in database", appLogger.LoggerInfo{
		ContextFunction: constant.CtxUpdateRecord,
		Data: map[string]interface{}{
			constant.DataSlug:        slug,
			constant.DataDestination: destination,
		},
	})

	result := r.db.Exec(`UPDATE code_models SET destination = ?, updated_at = ? WHERE slug = ?`,
		destination, time.Now(), slug)
	if result.Error != nil {
		appLogger.CtxError(ctx, "Failed to update destination in database", appLogger.LoggerInfo{
			ContextFunction: constant.CtxUpdateRecord,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBUpdate,
				Message: result.Error.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataSlug:        slug,
				constant.DataDestination: destination,
			},
		})
		return result.Error
	}

	if result.RowsAffected == 0 {
		appLogger.CtxWarn(ctx, "No rows updated", appLogger.LoggerInfo{
			ContextFunction: constant.CtxUpdateRecord,
			Data: map[string]interface{}{
				constant.DataSlug:         slug,
				constant.DataRowsAffected: 0,
			},
		})
		return qrlink.ErrSlugNotFound
	}

	appLogger.CtxInfo(ctx, "Destination updated successfully in database", appLogger.LoggerInfo{
		ContextFunction: constant.CtxUpdateRecord,
		Data: map[string]interface{}{
			constant.DataSlug:         slug,
			constant.DataDestination:  destination,
			constant.DataRowsAffected: result.RowsAffected,
		},
	})

	return nil
}

// UpdateStyle replaces the style columns for an existing slug
func (r *SQLiteRepository) UpdateStyle(ctx context.Context, slug string, style qrlink.Style, logoDataURI string) error {
	appLogger.CtxDebug(ctx, "Updating style in database", appLogger.LoggerInfo{
		ContextFunction: constant.CtxUpdateRecord,
		Data: map[string]interface{}{
			constant.DataSlug: slug,
		},
	})

	result := r.db.Exec(
		`UPDATE code_models
		 SET foreground = ?, background = ?, level = ?, quiet_zone = ?, module_shape = ?, eye_shape = ?, logo_ratio = ?, logo_data_uri = ?, updated_at = ?
		 WHERE slug = ?`,
		style.Foreground, style.Background, style.Level, style.QuietZone,
		style.ModuleShape, style.EyeShape, style.LogoRatio, logoDataURI,
		time.Now(), slug,
	)
	if result.Error != nil {
		appLogger.CtxError(ctx, "Failed to update style in database", appLogger.LoggerInfo{
			ContextFunction: constant.CtxUpdateRecord,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBUpdate,
				Message: result.Error.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
		return result.Error
	}

	if result.RowsAffected == 0 {
		appLogger.CtxWarn(ctx, "No rows updated", appLogger.LoggerInfo{
			ContextFunction: constant.CtxUpdateRecord,
			Data: map[string]interface{}{
				constant.DataSlug:         slug,
				constant.DataRowsAffected: 0,
			},
		})
		return qrlink.ErrSlugNotFound
	}

	appLogger.CtxInfo(ctx, "Style updated successfully in database", appLogger.LoggerInfo{
		ContextFunction: constant.CtxUpdateRecord,
		Data: map[string]interface{}{
			constant.DataSlug:         slug,
			constant.DataRowsAffected: result.RowsAffected,
		},
	})

	return nil
}

// Delete removes a code row
func (r *SQLiteRepository) Delete(ctx context.Context, slug string) error {
	result := r.db.Exec(`DELETE FROM code_models WHERE slug = ?`, slug)

	if result.Error != nil {
		appLogger.CtxError(ctx, "Failed to delete code", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDeleteRecord,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBDelete,
				Message: result.Error.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
		return result.Error
	}

	if result.RowsAffected == 0 {
		appLogger.CtxWarn(ctx, "No rows deleted", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDeleteRecord,
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
		return qrlink.ErrSlugNotFound
	}

	appLogger.CtxInfo(ctx, "Code deleted from database", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDeleteRecord,
		Data: map[string]interface{}{
			constant.DataSlug: slug,
		},
	})

	return nil
}

// IncrementScans increments the scan count for a slug
func (r *SQLiteRepository) IncrementScans(ctx context.Context, slug string) error {
	result := r.db.Exec(`UPDATE code_models SET scans = scans + 1 WHERE slug = ?`, slug)

	if result.Error != nil {
		appLogger.CtxError(ctx, "Failed to increment scan count", appLogger.LoggerInfo{
			ContextFunction: constant.CtxIncrementScans,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBIncrement,
				Message: result.Error.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
		return result.Error
	}

	if result.RowsAffected == 0 {
		appLogger.CtxWarn(ctx, "No rows affected when incrementing scans", appLogger.LoggerInfo{
			ContextFunction: constant.CtxIncrementScans,
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
	} else {
		appLogger.CtxDebug(ctx, "Scan count incremented", appLogger.LoggerInfo{
			ContextFunction: constant.CtxIncrementScans,
			Data: map[string]interface{}{
				constant.DataSlug:         slug,
				constant.DataRowsAffected: result.RowsAffected,
			},
		})
	}

	return nil
}

// Get retrieves a cached artifact. A missing row maps to
// qrlink.ErrArtifactNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, slug, format string, width int) (*qrlink.Artifact, error) {
	var model ArtifactModel

	rows, err := r.db.Raw(
		`SELECT id, slug, format, width, style_hash, bytes, created_at
		 FROM artifact_models WHERE slug = ? AND format = ? AND width = ? LIMIT 1`,
		slug, format, width).Rows()
	if err != nil {
		appLogger.CtxError(ctx, "Database error while looking up artifact", appLogger.LoggerInfo{
			ContextFunction: constant.CtxArtifactGet,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBArtifactGet,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataSlug:   slug,
				constant.DataFormat: format,
			},
		})
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, qrlink.ErrArtifactNotFound
	}

	if err := r.db.ScanRows(rows, &model); err != nil {
		appLogger.CtxError(ctx, "Failed to scan artifact row", appLogger.LoggerInfo{
			ContextFunction: constant.CtxArtifactGet,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBScanRows,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataSlug:   slug,
				constant.DataFormat: format,
			},
		})
		return nil, err
	}

	appLogger.CtxDebug(ctx, "Artifact found", appLogger.LoggerInfo{
		ContextFunction: constant.CtxArtifactGet,
		Data: map[string]interface{}{
			constant.DataSlug:   slug,
			constant.DataFormat: format,
			constant.DataWidth:  width,
			constant.DataBytes:  len(model.Bytes),
		},
	})

	return &qrlink.Artifact{
		Slug:      model.Slug,
		Format:    model.Format,
		Width:     model.Width,
		StyleHash: model.StyleHash,
		Bytes:     model.Bytes,
		CreatedAt: model.CreatedAt,
	}, nil
}

// Put upserts a cached artifact under its (slug, format, width) key
func (r *SQLiteRepository) Put(ctx context.Context, artifact *qrlink.Artifact) error {
	result := r.db.Exec(
		`INSERT INTO artifact_models (slug, format, width, style_hash, bytes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slug, format, width) DO UPDATE SET style_hash = excluded.style_hash, bytes = excluded.bytes, created_at = excluded.created_at`,
		artifact.Slug, artifact.Format, artifact.Width,
		artifact.StyleHash, artifact.Bytes, artifact.CreatedAt,
	)

	if result.Error != nil {
		appLogger.CtxError(ctx, "Failed to store artifact", appLogger.LoggerInfo{
			ContextFunction: constant.CtxArtifactPut,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBArtifactPut,
				Message: result.Error.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataSlug:   artifact.Slug,
				constant.DataFormat: artifact.Format,
			},
		})
		return result.Error
	}

	appLogger.CtxDebug(ctx, "Artifact stored", appLogger.LoggerInfo{
		ContextFunction: constant.CtxArtifactPut,
		Data: map[string]interface{}{
			constant.DataSlug:   artifact.Slug,
			constant.DataFormat: artifact.Format,
			constant.DataWidth:  artifact.Width,
			constant.DataBytes:  len(artifact.Bytes),
		},
	})

	return nil
}

// Purge removes every cached artifact for a slug
func (r *SQLiteRepository) Purge(ctx context.Context, slug string) error {
	result := r.db.Exec(`DELETE FROM artifact_models WHERE slug = ?`, slug)

	if result.Error != nil {
		appLogger.CtxError(ctx, "Failed to purge artifacts", appLogger.LoggerInfo{
			ContextFunction: constant.CtxArtifactPurge,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBArtifactPurge,
				Message: result.Error.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
		return result.Error
	}

	appLogger.CtxDebug(ctx, "Artifacts purged", appLogger.LoggerInfo{
		ContextFunction: constant.CtxArtifactPurge,
		Data: map[string]interface{}{
			constant.DataSlug:         slug,
			constant.DataRowsAffected: result.RowsAffected,
		},
	})

	return nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	ctx := context.Background()
	sqlDB, err := r.db.DB()
	if err != nil {
		appLogger.CtxError(ctx, "Failed to get database connection", appLogger.LoggerInfo{
			ContextFunction: constant.CtxClose,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBClose,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return err
	}

	appLogger.CtxInfo(ctx, "Closing database connection", appLogger.LoggerInfo{
		ContextFunction: constant.CtxClose,
	})

	return sqlDB.Close()
}

// modelToCode converts a database row to the domain entity
func modelToCode(model *CodeModel) *qrlink.Code {
	return &qrlink.Code{
		ID:          model.ID,
		Slug:        model.Slug,
		Destination: model.Destination,
		Label:       model.Label,
		Style: qrlink.Style{
			Foreground:  model.Foreground,
			Background:  model.Background,
			Level:       model.Level,
			QuietZone:   model.QuietZone,
			ModuleShape: model.ModuleShape,
			EyeShape:    model.EyeShape,
			LogoRatio:   model.LogoRatio,
		},
		LogoDataURI: model.LogoDataURI,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
		Scans:       model.Scans,
	}
}
