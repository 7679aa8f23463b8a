package services

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/desertthunder/sonora/internal/models"
)

const (
	coverNight  = "https://images.pexels.com/photos/1763075/pexels-photo-1763075.jpeg?auto=compress&cs=tinysrgb&w=300&h=300&dpr=2"
	coverChill  = "https://images.pexels.com/photos/1540406/pexels-photo-1540406.jpeg?auto=compress&cs=tinysrgb&w=300&h=300&dpr=2"
	imageArtist = "https://images.pexels.com/photos/1644924/pexels-photo-1644924.jpeg?auto=compress&cs=tinysrgb&w=300&h=300&dpr=2"
	imageJazz   = "https://images.pexels.com/photos/1644944/pexels-photo-1644944.jpeg?auto=compress&cs=tinysrgb&w=300&h=300&dpr=2"
	imageLarge  = "https://images.pexels.com/photos/1644924/pexels-photo-1644924.jpeg?auto=compress&cs=tinysrgb&w=400&h=400&dpr=2"

	sampleOne = "/samples/sample-1.mp3"
	sampleTwo = "/samples/sample-2.mp3"
)

var nowFunc = time.Now

func mockFeaturedPlaylists() []models.Playlist {
	now := nowFunc().UTC()
	return []models.Playlist{
		{ID: "featured-1", Name: "Today's Top Hits", Description: "The most played songs right now", Songs: []models.Song{}, CoverURL: coverNight, CreatedAt: now, Public: true},
		{ID: "featured-2", Name: "Chill Vibes", Description: "Relax and unwind with these mellow tracks", Songs: []models.Song{}, CoverURL: coverChill, CreatedAt: now, Public: true},
	}
}

func mockSearchSongs(q string) []models.Song {
	stamp := nowFunc().UnixMilli()
	return []models.Song{
		{ID: fmt.Sprintf("search-1-%d", stamp), Title: q + " - Song 1", Artist: "Featured Artist", Album: "Search Results", Duration: 180, URL: sampleOne, CoverURL: coverNight},
		{ID: fmt.Sprintf("search-2-%d", stamp), Title: q + " - Song 2", Artist: "Another Artist", Album: "Search Results", Duration: 200, URL: sampleTwo, CoverURL: coverChill},
	}
}

func mockSearchArtists(q string) []models.Artist {
	return []models.Artist{
		{ID: fmt.Sprintf("artist-1-%d", nowFunc().UnixMilli()), Name: q + " Artist", ImageURL: imageArtist, Followers: rand.IntN(1_000_000)},
	}
}

func mockSuggestions(q string) []string {
	return []string{q + " song", q + " artist", q + " album", q + " remix", "best " + q + " songs"}
}

func mockArtist(id string) *models.ArtistDetail {
	return &models.ArtistDetail{
		Artist: models.Artist{ID: id, Name: "Mock Artist", ImageURL: imageLarge, Followers: 500_000},
		TopSongs: []models.Song{
			{ID: "top-1", Title: "Popular Song 1", Artist: "Mock Artist", Album: "Greatest Hits", Duration: 210, URL: sampleOne, CoverURL: coverNight},
		},
		Albums: []models.Album{
			{ID: "album-1", Name: "Greatest Hits", Year: 2023, CoverURL: coverNight},
		},
	}
}

func mockTopArtists() []models.Artist {
	return []models.Artist{
		{ID: "artist-1", Name: "Luna Rodriguez", ImageURL: imageArtist, Followers: 1_200_000},
		{ID: "artist-2", Name: "Jazz Collective", ImageURL: imageJazz, Followers: 850_000},
	}
}

func mockRecentlyPlayed() []models.Song {
	return []models.Song{
		{ID: "recent-1", Title: "Midnight Dreams", Artist: "Luna Rodriguez", Album: "Night Sessions", Duration: 195, URL: sampleOne, CoverURL: coverNight, Liked: true},
		{ID: "recent-2", Title: "Urban Flow", Artist: "Beat Masters", Album: "City Sounds", Duration: 180, URL: sampleTwo, CoverURL: coverChill, Downloaded: true},
	}
}

func mockGenres() []string {
	return []string{
		"pop", "rock", "hip-hop", "jazz", "classical", "electronic",
		"country", "r&b", "indie", "folk", "blues", "reggae",
	}
}
