package main

import (
	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/storage"
)

// InitStorage selects and returns the configured storage backend
func InitStorage(env Environment) storage.Storage {
	if env.UseSpaces {
		spacesStorage, err := storage.NewSpacesStorage(
			env.SpacesEndpoint,
			env.SpacesRegion,
			env.SpacesBucket,
			env.SpacesCDNURL,
			env.SpacesAccessKey,
			env.SpacesSecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("cdn", env.SpacesCDNURL).Msg("using Spaces media storage")
		return spacesStorage
	}

	log.Info().Msg("using local media storage in ./uploads")
	return storage.NewLocalStorage("./uploads")
}
