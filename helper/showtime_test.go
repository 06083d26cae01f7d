package helper

import (
	"cinema_ticketing/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildShowtime(t *testing.T) {
	f := newFixture(t)

	var movie model.Movie
	require.NoError(t, f.db.First(&movie, f.showtime.MovieId).Error)

	start := time.Now().Add(24 * time.Hour)
	showtime, err := BuildShowtime(f.db, model.CreateShowtimeInput{
		MovieId:   movie.ID,
		RoomId:    f.showtime.RoomId,
		StartTime: start,
		Price:     80000,
	})
	require.NoError(t, err)

	// Giờ kết thúc = giờ bắt đầu + thời lượng phim
	assert.Equal(t, start.Add(time.Duration(movie.Duration)*time.Minute), showtime.EndTime)
	assert.Contains(t, showtime.PublicCode, "SHW-")
	assert.True(t, showtime.IsActive)
}

func TestBuildShowtimeRejectsOverlap(t *testing.T) {
	f := newFixture(t)

	// Chồng lấn với suất có sẵn (fixture: +2h đến +4h, cùng phòng)
	_, err := BuildShowtime(f.db, model.CreateShowtimeInput{
		MovieId:   f.showtime.MovieId,
		RoomId:    f.showtime.RoomId,
		StartTime: time.Now().Add(3 * time.Hour),
		Price:     80000,
	})
	assert.ErrorIs(t, err, ErrShowtimeOverlap)
}

func TestBuildShowtimeUnknownMovie(t *testing.T) {
	f := newFixture(t)

	_, err := BuildShowtime(f.db, model.CreateShowtimeInput{
		MovieId:   9999,
		RoomId:    f.showtime.RoomId,
		StartTime: time.Now().Add(24 * time.Hour),
		Price:     80000,
	})
	assert.Error(t, err)
}
