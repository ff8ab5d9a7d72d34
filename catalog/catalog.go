// Package catalog derives the course list from the content dictionary.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"studio/i18n"
	"studio/models"
)

var ErrCourseNotFound = errors.New("course not found")

// Catalog reads courses from keys course<N>Title, course<N>Desc,
// course<N>Details and course<N>Price, for N = 1, 2, ... until a title
// is missing.
type Catalog struct {
	store    *i18n.Store
	currency string
}

func New(store *i18n.Store, currency string) *Catalog {
	return &Catalog{store: store, currency: strings.ToLower(currency)}
}

func (c *Catalog) Currency() string {
	return c.currency
}

func (c *Catalog) List(lang string) ([]models.Course, error) {
	lang = c.store.Resolve(lang)
	var courses []models.Course
	for id := uint(1); ; id++ {
		course, ok, err := c.course(lang, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func (c *Catalog) Find(lang string, id uint) (models.Course, error) {
	course, ok, err := c.course(c.store.Resolve(lang), id)
	if err != nil {
		return models.Course{}, err
	}
	if !ok {
		return models.Course{}, fmt.Errorf("%w: %d", ErrCourseNotFound, id)
	}
	return course, nil
}

func (c *Catalog) course(lang string, id uint) (models.Course, bool, error) {
	if id == 0 {
		return models.Course{}, false, nil
	}
	prefix := fmt.Sprintf("course%d", id)
	title, ok := c.store.Lookup(lang, prefix+"Title")
	if !ok {
		return models.Course{}, false, nil
	}

	rawPrice := c.store.T(lang, prefix+"Price")
	price, err := decimal.NewFromString(strings.TrimSpace(rawPrice))
	if err != nil {
		return models.Course{}, false, fmt.Errorf("course %d: invalid price %q: %w", id, rawPrice, err)
	}

	return models.Course{
		ID:          id,
		Title:       title,
		Description: c.store.T(lang, prefix+"Desc"),
		Details:     c.store.T(lang, prefix+"Details"),
		Price:       price,
		Currency:    c.currency,
	}, true, nil
}
