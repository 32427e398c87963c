package domain

import "time"

// ApplicationEnvironment enumerates deploy targets for an application.
type ApplicationEnvironment string

const (
	EnvironmentDevelopment ApplicationEnvironment = "DEVELOPMENT"
	EnvironmentStaging     ApplicationEnvironment = "STAGING"
	EnvironmentProduction  ApplicationEnvironment = "PRODUCTION"
)

// Application is a deployable artifact tracked under a project.
type Application struct {
	ID          string
	ProjectID   string
	Name        string
	URL         *string
	Environment ApplicationEnvironment
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
