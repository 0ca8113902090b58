package dataset

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/config"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/fetcher"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/model"
)

// ErrNoGeocodedParcels signals that zero parcels survived the coordinate
// join. The pipeline cannot proceed without at least one geocoded parcel;
// this is a configuration fault, distinct from a region matching nothing.
var ErrNoGeocodedParcels = eris.New("dataset: no parcels could be matched with coordinates")

// Dataset is the immutable result of one load-and-join pass. Built once,
// shared read-only; a reload produces a fresh Dataset rather than mutating
// this one.
type Dataset struct {
	// Parcels holds the joined rows that carry a coordinate. Every entry
	// has HasLocation set.
	Parcels []model.ParcelRecord

	// Unmatched holds parcel rows with no coordinate match, original
	// source columns preserved for the diagnostic export.
	Unmatched []model.ParcelRecord

	// ParcelHeader is the parcel table's source header, used when
	// exporting unmatched rows with their original columns.
	ParcelHeader []string
}

// Load reads both source tables concurrently, normalizes identifiers,
// deduplicates addresses, and left-joins coordinates onto parcels.
// Returns ErrNoGeocodedParcels when the join leaves nothing geocoded.
func Load(ctx context.Context, cfg config.DataConfig) (*Dataset, error) {
	var (
		parcelTable  *fetcher.Table
		addressTable *fetcher.Table
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := fetcher.ReadTable(cfg.ParcelsPath)
		if err != nil {
			return eris.Wrapf(err, "dataset: load parcels from %s", cfg.ParcelsPath)
		}
		parcelTable = t
		return nil
	})
	g.Go(func() error {
		t, err := fetcher.ReadTable(cfg.AddressesPath)
		if err != nil {
			return eris.Wrapf(err, "dataset: load addresses from %s", cfg.AddressesPath)
		}
		addressTable = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	parcels, err := parseParcels(parcelTable, cfg)
	if err != nil {
		return nil, err
	}
	addresses, err := parseAddresses(addressTable, cfg)
	if err != nil {
		return nil, err
	}

	deduped := DedupeAddresses(addresses)
	zap.L().Info("address points deduplicated",
		zap.Int("input_rows", len(addresses)),
		zap.Int("unique_ssls", len(deduped)),
	)

	matched, unmatched := JoinCoordinates(parcels, deduped)
	zap.L().Info("parcel tables joined",
		zap.Int("parcels", len(parcels)),
		zap.Int("matched", len(matched)),
		zap.Int("unmatched", len(unmatched)),
	)

	if len(matched) == 0 {
		return nil, ErrNoGeocodedParcels
	}

	return &Dataset{
		Parcels:      matched,
		Unmatched:    unmatched,
		ParcelHeader: parcelTable.Header,
	}, nil
}

func parseParcels(t *fetcher.Table, cfg config.DataConfig) ([]model.ParcelRecord, error) {
	idCol := t.Column(cfg.ParcelIDColumn)
	if idCol < 0 {
		return nil, eris.Errorf("dataset: parcel table missing %q column", cfg.ParcelIDColumn)
	}
	useCol := t.Column(cfg.UseCodeColumn)
	valCol := t.Column(cfg.AssessedValueColumn)
	premCol := t.Column(cfg.PremiseColumn)

	parcels := make([]model.ParcelRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		parcels = append(parcels, model.ParcelRecord{
			SSL:           NormalizeIdentifier(t.Cell(row, idCol)),
			UseCode:       strings.TrimSpace(t.Cell(row, useCol)),
			AssessedValue: CoerceValue(t.Cell(row, valCol)),
			Address:       strings.TrimSpace(t.Cell(row, premCol)),
			RawColumns:    row,
		})
	}
	return parcels, nil
}

func parseAddresses(t *fetcher.Table, cfg config.DataConfig) ([]model.AddressPoint, error) {
	idCol := t.Column(cfg.AddressIDColumn)
	latCol := t.Column(cfg.LatitudeColumn)
	lngCol := t.Column(cfg.LongitudeColumn)
	if idCol < 0 || latCol < 0 || lngCol < 0 {
		return nil, eris.Errorf("dataset: address table missing one of %q, %q, %q",
			cfg.AddressIDColumn, cfg.LatitudeColumn, cfg.LongitudeColumn)
	}
	addrCol := t.Column(cfg.FullAddressColumn)

	points := make([]model.AddressPoint, 0, len(t.Rows))
	skipped := 0
	for _, row := range t.Rows {
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(t.Cell(row, latCol)), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(t.Cell(row, lngCol)), 64)
		if latErr != nil || lngErr != nil {
			skipped++
			continue
		}
		points = append(points, model.AddressPoint{
			SSL:         t.Cell(row, idCol),
			Latitude:    lat,
			Longitude:   lng,
			FullAddress: strings.TrimSpace(t.Cell(row, addrCol)),
		})
	}
	if skipped > 0 {
		zap.L().Warn("address rows skipped for unparseable coordinates", zap.Int("rows", skipped))
	}
	return points, nil
}
