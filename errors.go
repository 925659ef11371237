package pixiled

import (
	"errors"
	"fmt"
)

var (
	ErrZeroChannels = errors.New("cannot create a store with zero channels")
	ErrCorruptPage  = errors.New("read revealed corrupted data on a page")
)

// Returned when a coordinate, fixture or rig is described inconsistently,
// e.g. a coordinate built from zero or several representations.
type ConfigError struct {
	Component string
	Reason    string
}

func NewConfigError(component string, reason string) *ConfigError {
	return &ConfigError{
		Component: component,
		Reason:    reason,
	}
}

func (c ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", c.Component, c.Reason)
}

// Returned for an unknown frame, geometry or axis.
type InvalidParameterError struct {
	Kind  string
	Value string
}

func NewInvalidParameterError(kind string, value string) *InvalidParameterError {
	return &InvalidParameterError{
		Kind:  kind,
		Value: value,
	}
}

func (i InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s '%s'", i.Kind, i.Value)
}

type TextureNotFoundError struct {
	Texture string
}

func NewTextureNotFoundError(textureName string) TextureNotFoundError {
	return TextureNotFoundError{
		Texture: textureName,
	}
}

func (t TextureNotFoundError) Error() string {
	return fmt.Sprintf("texture '%s' not found in library", t.Texture)
}

type ChannelNotFoundError struct {
	Store   string
	Channel string
}

func NewChannelNotFoundError(store string, channel string) *ChannelNotFoundError {
	return &ChannelNotFoundError{
		Store:   store,
		Channel: channel,
	}
}

func (c ChannelNotFoundError) Error() string {
	return fmt.Sprintf("channel '%s' not found in store '%s'", c.Channel, c.Store)
}

type LocationNotSupportedError struct {
	Projection string
	Location   Location
}

func NewLocationNotSupportedError(projection string, location Location) *LocationNotSupportedError {
	return &LocationNotSupportedError{
		Projection: projection,
		Location:   location,
	}
}

func (l LocationNotSupportedError) Error() string {
	return fmt.Sprintf("location %v not supported by projection %s", l.Location, l.Projection)
}

type LocationOutOfBoundsError struct {
	Location Location
}

func NewLocationOutOfBoundsError(location Location) LocationOutOfBoundsError {
	return LocationOutOfBoundsError{Location: location}
}

func (l LocationOutOfBoundsError) Error() string {
	return fmt.Sprintf("location %v was out of bounds", l.Location)
}
