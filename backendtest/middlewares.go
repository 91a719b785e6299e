package backendtest

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/musram/middleware-manager-sub002/config"
)

// entityInput is the create/update payload shared by middlewares and
// services.
type entityInput struct {
	Name   string                 `json:"name" binding:"required"`
	Type   string                 `json:"type" binding:"required"`
	Config map[string]interface{} `json:"config" binding:"required"`
}

func (b *Backend) getMiddlewares(c *gin.Context) {
	rows, err := b.db.Query("SELECT id, name, type, config FROM middlewares ORDER BY name")
	if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to fetch middlewares")
		return
	}
	defer rows.Close()

	middlewares := []gin.H{}
	for rows.Next() {
		var id, name, typ, configStr string
		if err := rows.Scan(&id, &name, &typ, &configStr); err != nil {
			continue
		}
		middlewares = append(middlewares, entityJSON(id, name, typ, configStr))
	}
	if err := rows.Err(); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Database error while fetching middlewares")
		return
	}

	c.JSON(http.StatusOK, middlewares)
}

func (b *Backend) createMiddleware(c *gin.Context) {
	var input entityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		responseWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	if _, ok := b.registry.DescribeVariant(config.MiddlewareKind, input.Type); !ok {
		responseWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid middleware type: %s", input.Type))
		return
	}

	configJSON, err := json.Marshal(input.Config)
	if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to encode config")
		return
	}

	id := uuid.NewString()
	if _, err := b.db.Exec(
		"INSERT INTO middlewares (id, name, type, config) VALUES (?, ?, ?, ?)",
		id, input.Name, input.Type, string(configJSON),
	); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to save middleware")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     id,
		"name":   input.Name,
		"type":   input.Type,
		"config": input.Config,
	})
}

func (b *Backend) getMiddleware(c *gin.Context) {
	id := c.Param("id")

	var name, typ, configStr string
	err := b.db.QueryRow("SELECT name, type, config FROM middlewares WHERE id = ?", id).Scan(&name, &typ, &configStr)
	if err == sql.ErrNoRows {
		responseWithError(c, http.StatusNotFound, "Middleware not found")
		return
	} else if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to fetch middleware")
		return
	}

	c.JSON(http.StatusOK, entityJSON(id, name, typ, configStr))
}

func (b *Backend) updateMiddleware(c *gin.Context) {
	id := c.Param("id")

	var input entityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		responseWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// The type is fixed at creation; an update keeps the stored one.
	var storedType string
	err := b.db.QueryRow("SELECT type FROM middlewares WHERE id = ?", id).Scan(&storedType)
	if err == sql.ErrNoRows {
		responseWithError(c, http.StatusNotFound, "Middleware not found")
		return
	} else if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	configJSON, err := json.Marshal(input.Config)
	if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to encode config")
		return
	}

	if _, err := b.db.Exec(
		"UPDATE middlewares SET name = ?, config = ?, updated_at = ? WHERE id = ?",
		input.Name, string(configJSON), time.Now(), id,
	); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to update middleware")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     id,
		"name":   input.Name,
		"type":   storedType,
		"config": input.Config,
	})
}

func (b *Backend) deleteMiddleware(c *gin.Context) {
	id := c.Param("id")

	var count int
	if err := b.db.QueryRow("SELECT COUNT(*) FROM resource_middlewares WHERE middleware_id = ?", id).Scan(&count); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		responseWithError(c, http.StatusConflict, fmt.Sprintf("Cannot delete middleware because it is used by %d resources", count))
		return
	}

	result, err := b.db.Exec("DELETE FROM middlewares WHERE id = ?", id)
	if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to delete middleware")
		return
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		responseWithError(c, http.StatusNotFound, "Middleware not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Middleware deleted successfully"})
}

// entityJSON renders a middleware/service row, falling back to an empty
// config when the stored JSON is malformed.
func entityJSON(id, name, typ, configStr string) gin.H {
	var cfg map[string]interface{}
	if err := json.Unmarshal([]byte(configStr), &cfg); err != nil {
		cfg = map[string]interface{}{}
	}
	return gin.H{
		"id":     id,
		"name":   name,
		"type":   typ,
		"config": cfg,
	}
}
