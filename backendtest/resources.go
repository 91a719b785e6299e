package backendtest

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/musram/middleware-manager-sub002/models"
)

const resourceSelect = `
	SELECT r.id, r.host, r.service_id, r.org_id, r.site_id, r.status,
	       r.entrypoints, r.tls_domains, r.tcp_enabled, r.tcp_entrypoints, r.tcp_sni_rule,
	       r.custom_headers, r.router_priority, r.source_type,
	       GROUP_CONCAT(m.id || ':' || m.name || ':' || rm.priority, ',') as middlewares
	FROM resources r
	LEFT JOIN resource_middlewares rm ON r.id = rm.resource_id
	LEFT JOIN middlewares m ON rm.middleware_id = m.id
`

func scanResource(scan func(dest ...interface{}) error) (gin.H, error) {
	var id, host, serviceID, orgID, siteID, status string
	var entrypoints, tlsDomains, tcpEntrypoints, tcpSNIRule, customHeaders, sourceType string
	var tcpEnabled int
	var routerPriority sql.NullInt64
	var middlewares sql.NullString

	if err := scan(&id, &host, &serviceID, &orgID, &siteID, &status,
		&entrypoints, &tlsDomains, &tcpEnabled, &tcpEntrypoints, &tcpSNIRule,
		&customHeaders, &routerPriority, &sourceType, &middlewares); err != nil {
		return nil, err
	}

	priority := 100
	if routerPriority.Valid {
		priority = int(routerPriority.Int64)
	}

	resource := gin.H{
		"id":              id,
		"host":            host,
		"service_id":      serviceID,
		"org_id":          orgID,
		"site_id":         siteID,
		"status":          status,
		"entrypoints":     entrypoints,
		"tls_domains":     tlsDomains,
		"tcp_enabled":     tcpEnabled > 0,
		"tcp_entrypoints": tcpEntrypoints,
		"tcp_sni_rule":    tcpSNIRule,
		"custom_headers":  customHeaders,
		"router_priority": priority,
		"source_type":     sourceType,
		"middlewares":     "",
	}
	if middlewares.Valid {
		resource["middlewares"] = middlewares.String
	}
	return resource, nil
}

func (b *Backend) getResources(c *gin.Context) {
	rows, err := b.db.Query(resourceSelect + " GROUP BY r.id")
	if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to fetch resources")
		return
	}
	defer rows.Close()

	resources := []gin.H{}
	for rows.Next() {
		resource, err := scanResource(rows.Scan)
		if err != nil {
			continue
		}
		resources = append(resources, resource)
	}
	if err := rows.Err(); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to fetch resources")
		return
	}

	c.JSON(http.StatusOK, resources)
}

func (b *Backend) getResource(c *gin.Context) {
	id := c.Param("id")

	row := b.db.QueryRow(resourceSelect+" WHERE r.id = ? GROUP BY r.id", id)
	resource, err := scanResource(row.Scan)
	if err == sql.ErrNoRows {
		responseWithError(c, http.StatusNotFound, fmt.Sprintf("Resource not found: %s", id))
		return
	} else if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to fetch resource")
		return
	}

	c.JSON(http.StatusOK, resource)
}

func (b *Backend) deleteResource(c *gin.Context) {
	id := c.Param("id")

	var status string
	err := b.db.QueryRow("SELECT status FROM resources WHERE id = ?", id).Scan(&status)
	if err == sql.ErrNoRows {
		responseWithError(c, http.StatusNotFound, "Resource not found")
		return
	} else if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if status != "disabled" {
		responseWithError(c, http.StatusBadRequest, "Only disabled resources can be deleted")
		return
	}

	if _, err := b.db.Exec("DELETE FROM resource_middlewares WHERE resource_id = ?", id); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to delete resource")
		return
	}
	if _, err := b.db.Exec("DELETE FROM resource_services WHERE resource_id = ?", id); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to delete resource")
		return
	}
	if _, err := b.db.Exec("DELETE FROM resources WHERE id = ?", id); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to delete resource")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Resource deleted successfully"})
}

// requireActiveResource verifies the resource exists and is not disabled.
func (b *Backend) requireActiveResource(c *gin.Context, id string) bool {
	var status string
	err := b.db.QueryRow("SELECT status FROM resources WHERE id = ?", id).Scan(&status)
	if err == sql.ErrNoRows {
		responseWithError(c, http.StatusNotFound, "Resource not found")
		return false
	} else if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Database error")
		return false
	}
	if status == "disabled" {
		responseWithError(c, http.StatusBadRequest, "Resource is disabled")
		return false
	}
	return true
}

func (b *Backend) assignMiddleware(c *gin.Context) {
	resourceID := c.Param("id")

	var input struct {
		MiddlewareID string `json:"middleware_id" binding:"required"`
		Priority     int    `json:"priority"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		responseWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	if input.Priority <= 0 {
		input.Priority = 100
	}

	if !b.requireActiveResource(c, resourceID) {
		return
	}

	var exists int
	err := b.db.QueryRow("SELECT 1 FROM middlewares WHERE id = ?", input.MiddlewareID).Scan(&exists)
	if err == sql.ErrNoRows {
		responseWithError(c, http.StatusNotFound, "Middleware not found")
		return
	} else if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if _, err := b.db.Exec(
		"INSERT OR REPLACE INTO resource_middlewares (resource_id, middleware_id, priority) VALUES (?, ?, ?)",
		resourceID, input.MiddlewareID, input.Priority,
	); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to assign middleware")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resource_id":   resourceID,
		"middleware_id": input.MiddlewareID,
		"priority":      input.Priority,
	})
}

func (b *Backend) assignMultipleMiddlewares(c *gin.Context) {
	resourceID := c.Param("id")

	var input struct {
		Middlewares []struct {
			MiddlewareID string `json:"middleware_id" binding:"required"`
			Priority     int    `json:"priority"`
		} `json:"middlewares" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		responseWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	if !b.requireActiveResource(c, resourceID) {
		return
	}

	successful := []gin.H{}
	for _, mw := range input.Middlewares {
		if mw.Priority <= 0 {
			mw.Priority = 100
		}

		// Unknown middlewares are skipped rather than failing the batch.
		var exists int
		err := b.db.QueryRow("SELECT 1 FROM middlewares WHERE id = ?", mw.MiddlewareID).Scan(&exists)
		if err == sql.ErrNoRows {
			continue
		} else if err != nil {
			responseWithError(c, http.StatusInternalServerError, "Database error")
			return
		}

		if _, err := b.db.Exec(
			"INSERT OR REPLACE INTO resource_middlewares (resource_id, middleware_id, priority) VALUES (?, ?, ?)",
			resourceID, mw.MiddlewareID, mw.Priority,
		); err != nil {
			responseWithError(c, http.StatusInternalServerError, "Failed to assign middleware")
			return
		}

		successful = append(successful, gin.H{
			"middleware_id": mw.MiddlewareID,
			"priority":      mw.Priority,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"resource_id": resourceID,
		"middlewares": successful,
	})
}

func (b *Backend) removeMiddleware(c *gin.Context) {
	resourceID := c.Param("id")
	middlewareID := c.Param("middlewareId")

	result, err := b.db.Exec(
		"DELETE FROM resource_middlewares WHERE resource_id = ? AND middleware_id = ?",
		resourceID, middlewareID,
	)
	if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to remove middleware")
		return
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		responseWithError(c, http.StatusNotFound, "Resource middleware relationship not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Middleware removed from resource successfully"})
}

// updateResourceColumns applies a config-section update and reports the
// touched columns back.
func (b *Backend) updateResourceColumns(c *gin.Context, id, query string, args ...interface{}) bool {
	if !b.requireActiveResource(c, id) {
		return false
	}

	args = append(args, time.Now(), id)
	if _, err := b.db.Exec(query, args...); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to update resource configuration")
		return false
	}
	return true
}

func (b *Backend) updateHTTPConfig(c *gin.Context) {
	id := c.Param("id")

	var input models.HTTPConfigUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		responseWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	if !b.updateResourceColumns(c, id,
		"UPDATE resources SET entrypoints = ?, updated_at = ? WHERE id = ?",
		input.Entrypoints,
	) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "entrypoints": input.Entrypoints})
}

func (b *Backend) updateTLSConfig(c *gin.Context) {
	id := c.Param("id")

	var input models.TLSConfigUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		responseWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	if !b.updateResourceColumns(c, id,
		"UPDATE resources SET tls_domains = ?, updated_at = ? WHERE id = ?",
		input.TLSDomains,
	) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "tls_domains": input.TLSDomains})
}

func (b *Backend) updateTCPConfig(c *gin.Context) {
	id := c.Param("id")

	var input models.TCPConfigUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		responseWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	enabled := 0
	if input.TCPEnabled {
		enabled = 1
	}
	if !b.updateResourceColumns(c, id,
		"UPDATE resources SET tcp_enabled = ?, tcp_entrypoints = ?, tcp_sni_rule = ?, updated_at = ? WHERE id = ?",
		enabled, input.TCPEntrypoints, input.TCPSNIRule,
	) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              id,
		"tcp_enabled":     input.TCPEnabled,
		"tcp_entrypoints": input.TCPEntrypoints,
		"tcp_sni_rule":    input.TCPSNIRule,
	})
}

func (b *Backend) updateHeadersConfig(c *gin.Context) {
	id := c.Param("id")

	var input models.HeadersConfigUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		responseWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	encoded, err := json.Marshal(input.CustomHeaders)
	if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to encode headers")
		return
	}

	if !b.updateResourceColumns(c, id,
		"UPDATE resources SET custom_headers = ?, updated_at = ? WHERE id = ?",
		string(encoded),
	) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "custom_headers": input.CustomHeaders})
}

func (b *Backend) updateRouterPriority(c *gin.Context) {
	id := c.Param("id")

	var input models.RouterPriorityUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		responseWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	if !b.updateResourceColumns(c, id,
		"UPDATE resources SET router_priority = ?, updated_at = ? WHERE id = ?",
		input.RouterPriority,
	) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "router_priority": input.RouterPriority})
}

func (b *Backend) getResourceService(c *gin.Context) {
	resourceID := c.Param("id")

	var serviceID string
	err := b.db.QueryRow("SELECT service_id FROM resource_services WHERE resource_id = ?", resourceID).Scan(&serviceID)
	if err == sql.ErrNoRows {
		responseWithError(c, http.StatusNotFound, "No custom service assigned to this resource")
		return
	} else if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resource_id": resourceID,
		"service_id":  serviceID,
	})
}

func (b *Backend) assignResourceService(c *gin.Context) {
	resourceID := c.Param("id")

	var input struct {
		ServiceID string `json:"service_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		responseWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	if !b.requireActiveResource(c, resourceID) {
		return
	}

	var exists int
	err := b.db.QueryRow("SELECT 1 FROM services WHERE id = ?", input.ServiceID).Scan(&exists)
	if err == sql.ErrNoRows {
		responseWithError(c, http.StatusNotFound, "Service not found")
		return
	} else if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	// A resource has at most one custom service; replace any binding.
	if _, err := b.db.Exec(
		"INSERT OR REPLACE INTO resource_services (resource_id, service_id) VALUES (?, ?)",
		resourceID, input.ServiceID,
	); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to assign service")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resource_id": resourceID,
		"service_id":  input.ServiceID,
	})
}

func (b *Backend) removeResourceService(c *gin.Context) {
	resourceID := c.Param("id")

	result, err := b.db.Exec("DELETE FROM resource_services WHERE resource_id = ?", resourceID)
	if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to remove service")
		return
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		responseWithError(c, http.StatusNotFound, "No custom service assigned to this resource")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service removed from resource successfully"})
}
