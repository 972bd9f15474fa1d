// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Swagger general API information, read by `swag init -g cmd/server/docs.go`.
// Regenerate the docs package after changing any handler annotation.
//
// @title Sightmap API
// @version 1.0
// @description Occurrence points, species index and module listing behind the Sightmap map pages.
// @description
// @description ## Error Responses
// @description
// @description JSON endpoints wrap errors as:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "DATA_UNAVAILABLE",
// @description     "message": "Occurrence data is unavailable"
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-05-01T12:00:00Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/sightmap/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Core
// @tag.description Health checks
//
// @tag.name Map
// @tag.description Map data shared with the module pages
package main
