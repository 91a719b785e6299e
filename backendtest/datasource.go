package backendtest

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/musram/middleware-manager-sub002/models"
)

// maskedPassword replaces stored secrets in listings.
const maskedPassword = "••••••••"

func sourceConfig(typ, rawURL, username, password string, mask bool) models.DataSourceConfig {
	cfg := models.DataSourceConfig{
		Type: models.DataSourceType(typ),
		URL:  rawURL,
		BasicAuth: models.BasicAuthConfig{
			Username: username,
		},
	}
	if password != "" {
		if mask {
			cfg.BasicAuth.Password = maskedPassword
		} else {
			cfg.BasicAuth.Password = password
		}
	}
	return cfg
}

func (b *Backend) getDataSources(c *gin.Context) {
	rows, err := b.db.Query("SELECT name, type, url, username, password, active FROM data_sources")
	if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to fetch data sources")
		return
	}
	defer rows.Close()

	sources := map[string]models.DataSourceConfig{}
	activeSource := ""
	for rows.Next() {
		var name, typ, rawURL, username, password string
		var active int
		if err := rows.Scan(&name, &typ, &rawURL, &username, &password, &active); err != nil {
			continue
		}
		sources[name] = sourceConfig(typ, rawURL, username, password, true)
		if active > 0 {
			activeSource = name
		}
	}
	if err := rows.Err(); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to fetch data sources")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"active_source": activeSource,
		"sources":       sources,
	})
}

func (b *Backend) getActiveDataSource(c *gin.Context) {
	var name, typ, rawURL, username, password string
	err := b.db.QueryRow(
		"SELECT name, type, url, username, password FROM data_sources WHERE active = 1",
	).Scan(&name, &typ, &rawURL, &username, &password)
	if err == sql.ErrNoRows {
		responseWithError(c, http.StatusInternalServerError, "No active data source configured")
		return
	} else if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to fetch active data source")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":   name,
		"config": sourceConfig(typ, rawURL, username, password, true),
	})
}

func (b *Backend) setActiveDataSource(c *gin.Context) {
	var request struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		responseWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var exists int
	err := b.db.QueryRow("SELECT 1 FROM data_sources WHERE name = ?", request.Name).Scan(&exists)
	if err == sql.ErrNoRows {
		responseWithError(c, http.StatusBadRequest, fmt.Sprintf("Unknown data source: %s", request.Name))
		return
	} else if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if _, err := b.db.Exec("UPDATE data_sources SET active = CASE WHEN name = ? THEN 1 ELSE 0 END", request.Name); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to set active data source")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Data source updated successfully",
		"name":    request.Name,
	})
}

func (b *Backend) updateDataSource(c *gin.Context) {
	name := c.Param("name")

	var cfg models.DataSourceConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		responseWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var storedPassword string
	err := b.db.QueryRow("SELECT password FROM data_sources WHERE name = ?", name).Scan(&storedPassword)
	if err == sql.ErrNoRows {
		responseWithError(c, http.StatusNotFound, fmt.Sprintf("Unknown data source: %s", name))
		return
	} else if err != nil {
		responseWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	// An absent password keeps the stored secret.
	password := cfg.BasicAuth.Password
	if password == "" || password == maskedPassword {
		password = storedPassword
	}

	if _, err := b.db.Exec(
		"UPDATE data_sources SET type = ?, url = ?, username = ?, password = ? WHERE name = ?",
		string(cfg.Type), cfg.URL, cfg.BasicAuth.Username, password, name,
	); err != nil {
		responseWithError(c, http.StatusInternalServerError, "Failed to update data source")
		return
	}

	cfg.BasicAuth.Password = ""
	if password != "" {
		cfg.BasicAuth.Password = maskedPassword
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Data source updated successfully",
		"name":    name,
		"config":  cfg,
	})
}

func (b *Backend) testDataSource(c *gin.Context) {
	name := c.Param("name")

	var cfg models.DataSourceConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		responseWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if cfg.URL == "" {
		responseWithError(c, http.StatusBadRequest, "Data source URL is required")
		return
	}
	parsed, err := url.Parse(cfg.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		responseWithError(c, http.StatusBadGateway, fmt.Sprintf("Cannot reach data source at %s", cfg.URL))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Connection to %s succeeded", name),
	})
}
