// Package registeruser implements the Register User use case of the user directory.
package registeruser
