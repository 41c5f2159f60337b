// Package compose turns LLM completions into structured itineraries.
package compose

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/FACorreiaa/go-tripweaver/internal/app/models"
)

const dateLayout = "2006-01-02"

var (
	titleLineRe    = regexp.MustCompile(`(?i)^ITINERARY TITLE:\s*(.+)$`)
	dayLineRe      = regexp.MustCompile(`(?i)^DAY\s+(\d+)\s*-\s*(.*)$`)
	placeLineRe    = regexp.MustCompile(`^\*\*(.+?)\*\*\s*\(lat:\s*(-?[0-9.]+),\s*lng:\s*(-?[0-9.]+)\)`)
	isoDateRe      = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	regionMarkerRe = regexp.MustCompile(`\*\*([^*"]+)\*\*`)
	quotedRegionRe = regexp.MustCompile(`\*\*"([^"]+)"(?:\*\*)?`)
	shortNameRe    = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	spaceRunRe     = regexp.MustCompile(`\s+`)
)

// Parse turns raw LLM text into a structured itinerary. It never fails:
// malformed sections degrade to placeholders, and the result always carries
// exactly totalDays days.
func Parse(rawText, destination, startDate string, totalDays int) *models.StructuredItinerary {
	it := &models.StructuredItinerary{
		Title:       destination + " Adventure",
		Destination: destination,
		TotalDays:   totalDays,
	}

	start, startValid := parseStartDate(startDate)

	var (
		currentDay   *models.Day
		currentPlace *models.Place
		pendingLines []string
		lastRegion   string
	)

	flushParagraph := func() {
		if currentPlace == nil || len(pendingLines) == 0 {
			pendingLines = nil
			return
		}
		paragraph := strings.Join(pendingLines, " ")
		if match := shortNameRe.FindStringSubmatch(paragraph); match != nil {
			currentPlace.ShortName = strings.TrimSpace(match[1])
			paragraph = shortNameRe.ReplaceAllString(paragraph, "")
		}
		currentPlace.Paragraph = collapseSpaces(paragraph)
		pendingLines = nil
	}

	flushDay := func() {
		flushParagraph()
		if currentDay != nil {
			it.Days = append(it.Days, *currentDay)
		}
		currentDay = nil
		currentPlace = nil
	}

	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if match := titleLineRe.FindStringSubmatch(line); match != nil {
			it.Title = strings.TrimSpace(match[1])
			continue
		}

		if match := dayLineRe.FindStringSubmatch(line); match != nil {
			flushDay()
			dayNumber := len(it.Days) + 1
			day := models.Day{
				DayNumber: dayNumber,
				Places:    []models.Place{},
			}

			rest := match[2]
			if date := isoDateRe.FindString(rest); date != "" {
				day.Date = date
				rest = strings.Replace(rest, date, "", 1)
			} else if startValid {
				day.Date = start.AddDate(0, 0, dayNumber-1).Format(dateLayout)
			}

			if region := regionMarkerRe.FindStringSubmatch(rest); region != nil {
				lastRegion = strings.TrimSpace(region[1])
				rest = regionMarkerRe.ReplaceAllString(rest, "")
			}
			day.Region = lastRegion
			day.Title = strings.Trim(collapseSpaces(rest), " -")

			currentDay = &day
			continue
		}

		if match := placeLineRe.FindStringSubmatch(line); match != nil {
			if currentDay == nil {
				continue
			}
			lat, latErr := strconv.ParseFloat(match[2], 64)
			lng, lngErr := strconv.ParseFloat(match[3], 64)
			if latErr != nil || lngErr != nil {
				// Malformed coordinates: the place is silently dropped.
				continue
			}
			flushParagraph()
			currentDay.Places = append(currentDay.Places, models.Place{
				Name:      strings.TrimSpace(match[1]),
				Latitude:  lat,
				Longitude: lng,
				Status:    models.PlaceStatusIdle,
				Type:      models.PlaceTypePlace,
			})
			currentPlace = &currentDay.Places[len(currentDay.Places)-1]
			continue
		}

		if currentPlace != nil {
			pendingLines = append(pendingLines, line)
			continue
		}

		if currentDay != nil {
			if region := quotedRegionRe.FindStringSubmatch(line); region != nil {
				lastRegion = strings.TrimSpace(region[1])
				currentDay.Region = lastRegion
				line = quotedRegionRe.ReplaceAllString(line, "")
				line = collapseSpaces(line)
				if line == "" {
					continue
				}
			}
			if currentDay.Description == "" {
				currentDay.Description = line
			} else {
				currentDay.Description += " " + line
			}
		}
	}
	flushDay()

	// Pad with placeholder days; truncate extras. Region inheritance persists
	// across placeholders.
	for len(it.Days) < totalDays {
		dayNumber := len(it.Days) + 1
		day := models.Day{
			DayNumber:   dayNumber,
			Title:       fmt.Sprintf("Day %d", dayNumber),
			Description: "Free time to explore",
			Region:      lastRegion,
			Places:      []models.Place{},
		}
		if startValid {
			day.Date = start.AddDate(0, 0, dayNumber-1).Format(dateLayout)
		}
		it.Days = append(it.Days, day)
	}
	if totalDays >= 0 && len(it.Days) > totalDays {
		it.Days = it.Days[:totalDays]
	}

	return it
}

func parseStartDate(startDate string) (time.Time, bool) {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(startDate))
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func collapseSpaces(text string) string {
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(text, " "))
}
