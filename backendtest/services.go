package backendtest

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/musram/middleware-manager-sub002/models"
)

func (b *Backend) getServices(c *gin.Context) {
	rows, err := b.db.Query("SELECT id, name, type, config FROM services ORDER BY name")
	if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to fetch services")
		return
	}
	defer rows.Close()

	services := []gin.H{}
	for rows.Next() {
		var id, name, typ, configStr string
		if err := rows.Scan(&id, &name, &typ, &configStr); err != nil {
			continue
		}
		services = append(services, entityJSON(id, name, typ, configStr))
	}
	if err := rows.Err(); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Database error while fetching services")
		return
	}

	c.JSON(http.StatusOK, services)
}

func (b *Backend) createService(c *gin.Context) {
	var input entityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		responseWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	if !models.IsValidServiceType(input.Type) {
		responseWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid service type: %s", input.Type))
		return
	}

	configJSON, err := json.Marshal(input.Config)
	if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to encode config")
		return
	}

	id := uuid.NewString()
	if _, err := b.db.Exec(
		"INSERT INTO services (id, name, type, config) VALUES (?, ?, ?, ?)",
		id, input.Name, input.Type, string(configJSON),
	); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to save service")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     id,
		"name":   input.Name,
		"type":   input.Type,
		"config": input.Config,
	})
}

func (b *Backend) getService(c *gin.Context) {
	id := c.Param("id")

	var name, typ, configStr string
	err := b.db.QueryRow("SELECT name, type, config FROM services WHERE id = ?", id).Scan(&name, &typ, &configStr)
	if err == sql.ErrNoRows {
		responseWithError(c, http.StatusNotFound, "Service not found")
		return
	} else if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to fetch service")
		return
	}

	c.JSON(http.StatusOK, entityJSON(id, name, typ, configStr))
}

func (b *Backend) updateService(c *gin.Context) {
	id := c.Param("id")

	var input entityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		responseWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// The type is fixed at creation; an update keeps the stored one.
	var storedType string
	err := b.db.QueryRow("SELECT type FROM services WHERE id = ?", id).Scan(&storedType)
	if err == sql.ErrNoRows {
		responseWithError(c, http.StatusNotFound, "Service not found")
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
		"UPDATE services SET name = ?, config = ?, updated_at = ? WHERE id = ?",
		input.Name, string(configJSON), time.Now(), id,
	); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     id,
		"name":   input.Name,
		"type":   storedType,
		"config": input.Config,
	})
}

func (b *Backend) deleteService(c *gin.Context) {
	id := c.Param("id")

	var count int
	if err := b.db.QueryRow("SELECT COUNT(*) FROM resource_services WHERE service_id = ?", id).Scan(&count); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		responseWithError(c, http.StatusConflict, fmt.Sprintf("Cannot delete service because it is used by %d resources", count))
		return
	}

	result, err := b.db.Exec("DELETE FROM services WHERE id = ?", id)
	if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to delete service")
		return
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		responseWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
