package services

import (
	"regexp"
	"strconv"
	"strings"

	"skin-watcher/models"
)

const (
	statTrakPrefix = "StatTrak "
	itemSeparator  = " | "
)

var (
	// soldRegexp matches a block whose item is already gone: "(売約済み) #77"
	soldRegexp = regexp.MustCompile(`^\((?:売約済み|sold)\) #(\d+)$`)
	// vanillaRegexp matches "★ Karambit (Vanilla) #12"
	vanillaRegexp = regexp.MustCompile(`^(.+) \(Vanilla\) #(\d+)$`)
	// itemRegexp matches the part after the separator: "Redline (Field-Tested) #123"
	itemRegexp = regexp.MustCompile(`^(.+) \(([^()]+)\) #(\d+)$`)
	// priceRegexp matches "販売価格: 15,000円"
	priceRegexp = regexp.MustCompile(`^(?:販売価格|price): *([0-9,]+)`)
)

// ParseSection turns the name line and price line of one block into a
// ParsedSection. The name line is tried as a sold marker, then a vanilla
// item, then a full "name | kind (exterior) #id" item.
func ParseSection(nameLine, priceLine string) (*models.ParsedSection, error) {
	line := strings.TrimSpace(nameLine)

	if m := soldRegexp.FindStringSubmatch(line); m != nil {
		orderID, err := parseNumber(m[1])
		if err != nil {
			return nil, err
		}
		price, err := parsePrice(priceLine)
		if err != nil {
			return nil, err
		}
		return &models.ParsedSection{OrderID: orderID, Price: price}, nil
	}

	listing, err := parseNameLine(line)
	if err != nil {
		return nil, err
	}

	price, err := parsePrice(priceLine)
	if err != nil {
		return nil, err
	}
	listing.Price = price

	return &models.ParsedSection{OrderID: listing.OrderID, Price: price, Listing: listing}, nil
}

func parseNameLine(line string) (*models.Listing, error) {
	var (
		listing = &models.Listing{}
		digits  string
	)

	segments := strings.Split(line, itemSeparator)
	switch len(segments) {
	case 1:
		m := vanillaRegexp.FindStringSubmatch(segments[0])
		if m == nil {
			return nil, invalidItemFormat(line)
		}
		listing.Name = m[1]
		digits = m[2]
	case 2:
		m := itemRegexp.FindStringSubmatch(segments[1])
		if m == nil {
			return nil, invalidItemFormat(line)
		}
		exterior, ok := models.ParseExterior(m[2])
		if !ok {
			return nil, invalidExterior(m[2])
		}
		kind := strings.TrimSpace(m[1])
		listing.Name = segments[0]
		listing.Kind = &kind
		listing.Exterior = &exterior
		digits = m[3]
	default:
		return nil, invalidItemFormat(line)
	}

	orderID, err := parseNumber(digits)
	if err != nil {
		return nil, err
	}
	listing.OrderID = orderID

	listing.Name = strings.TrimSpace(listing.Name)
	if strings.HasPrefix(listing.Name, statTrakPrefix) {
		listing.Name = strings.TrimSpace(strings.TrimPrefix(listing.Name, statTrakPrefix))
		listing.IsStatTrak = true
	}

	return listing, nil
}

func parsePrice(line string) (int, error) {
	m := priceRegexp.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return 0, invalidPrice(line)
	}
	return parseNumber(strings.ReplaceAll(m[1], ",", ""))
}

// parseNumber parses a non-negative integer that fits the INTEGER column.
func parseNumber(digits string) (int, error) {
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil {
		return 0, invalidNumber(digits, err)
	}
	return int(n), nil
}
