// README: Decodes persisted tariff blobs of any schema age into a typed Config.
package tariff

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

// typedKeys are the JSON names of Config's own fields. They never take the
// legacy path even when they share a prefix such as "floor_".
var typedKeys = jsonFieldNames(reflect.TypeOf(Config{}))

func jsonFieldNames(t reflect.Type) map[string]struct{} {
	out := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			out[name] = struct{}{}
		}
	}
	return out
}

// Migrate decodes a persisted blob onto a fresh Defaults value so keys the
// blob lacks are backfilled and map entries merge key by key. Flat keys from
// older blobs are folded into the typed maps:
//
//	load_<size>, unload_<size>, floor_<code>
//	temps_<size>_chargement, temps_<size>_dechargement, facteurEtage_<code>
//
// plus the scalar names the first estimator widget wrote (tauxHoraireBase,
// nombreCamions, taxeTPS, ...). Unknown keys are ignored.
func Migrate(raw []byte) (Config, error) {
	cfg := Defaults()
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode tariff config: %w", err)
	}

	var flat map[string]json.RawMessage
	if err := json.Unmarshal(raw, &flat); err != nil {
		return Config{}, fmt.Errorf("decode tariff keys: %w", err)
	}
	if cfg.SizeHandling == nil {
		cfg.SizeHandling = Defaults().SizeHandling
	}
	if cfg.FloorMultipliers == nil {
		cfg.FloorMultipliers = Defaults().FloorMultipliers
	}
	if err := mergeSizeHandling(&cfg, flat["size_handling"]); err != nil {
		return Config{}, err
	}
	if err := foldLegacyKeys(&cfg, flat); err != nil {
		return Config{}, err
	}

	cfg.Version = SchemaVersion
	return cfg, nil
}

func foldLegacyKeys(cfg *Config, flat map[string]json.RawMessage) error {
	floats := map[string]*float64{
		"tauxHoraireBase":      &cfg.BaseHourlyRate,
		"majorationWeekend":    &cfg.WeekendSurcharge,
		"majorationJuillet":    &cfg.JulySurcharge,
		"majorationFinMois":    &cfg.MonthEndSurcharge,
		"heureFixeDeplacement": &cfg.FixedTravelHours,
		"seuilDeplacementMin":  &cfg.OutOfZoneThresholdMin,
		"vitesseMoyenne":       &cfg.AverageSpeedKmh,
		"pauseParHeure":        &cfg.BreakMinutesPerHour,
		"facteurTrafic":        &cfg.TrafficFactor,
		"taxeTPS":              &cfg.GSTPercent,
		"taxeTVQ":              &cfg.QSTPercent,
	}
	ints := map[string]*int{
		"nombreDemenageurs": &cfg.CrewSize,
		"nombreCamions":     &cfg.TruckCount,
	}

	for key, val := range flat {
		if _, typed := typedKeys[key]; typed {
			continue
		}
		if dst, ok := floats[key]; ok {
			v, err := decodeNumber(key, val)
			if err != nil {
				return err
			}
			*dst = v
			continue
		}
		if dst, ok := ints[key]; ok {
			v, err := decodeNumber(key, val)
			if err != nil {
				return err
			}
			*dst = int(math.Round(v))
			continue
		}

		switch {
		case key == "devise":
			var s string
			if err := json.Unmarshal(val, &s); err == nil && s != "" {
				cfg.Currency = s
			}
		case key == "derniereMiseAJour":
			var s string
			if err := json.Unmarshal(val, &s); err == nil {
				if ts, err := time.Parse(time.RFC3339, s); err == nil {
					cfg.LastUpdated = &ts
				}
			}
		case strings.HasPrefix(key, "load_"):
			if err := setHandling(cfg, strings.TrimPrefix(key, "load_"), key, val, true); err != nil {
				return err
			}
		case strings.HasPrefix(key, "unload_"):
			if err := setHandling(cfg, strings.TrimPrefix(key, "unload_"), key, val, false); err != nil {
				return err
			}
		case strings.HasPrefix(key, "temps_") && strings.HasSuffix(key, "_dechargement"):
			size := widgetSize(strings.TrimSuffix(strings.TrimPrefix(key, "temps_"), "_dechargement"))
			if err := setHandling(cfg, size, key, val, false); err != nil {
				return err
			}
		case strings.HasPrefix(key, "temps_") && strings.HasSuffix(key, "_chargement"):
			size := widgetSize(strings.TrimSuffix(strings.TrimPrefix(key, "temps_"), "_chargement"))
			if err := setHandling(cfg, size, key, val, true); err != nil {
				return err
			}
		case strings.HasPrefix(key, "floor_"), strings.HasPrefix(key, "facteurEtage_"):
			_, code, _ := strings.Cut(key, "_")
			v, err := decodeNumber(key, val)
			if err != nil {
				return err
			}
			cfg.FloorMultipliers[code] = v
		}
	}
	return nil
}

// mergeSizeHandling decodes each size entry onto its default so a partial
// entry such as {"load":70} keeps the built-in unload minutes.
func mergeSizeHandling(cfg *Config, raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("decode size_handling: %w", err)
	}
	defaults := Defaults()
	for size, entry := range entries {
		h := SizeHandlingMinutes(size, defaults)
		if err := json.Unmarshal(entry, &h); err != nil {
			return fmt.Errorf("decode size_handling %q: %w", size, err)
		}
		cfg.SizeHandling[size] = h
	}
	return nil
}

func setHandling(cfg *Config, size, key string, val json.RawMessage, load bool) error {
	if size == "" {
		return nil
	}
	v, err := decodeNumber(key, val)
	if err != nil {
		return err
	}
	h := SizeHandlingMinutes(size, *cfg)
	if load {
		h.Load = v
	} else {
		h.Unload = v
	}
	cfg.SizeHandling[size] = h
	return nil
}

// widgetSize turns "1_5" back into "1.5"; named sizes pass through.
func widgetSize(k string) string {
	if k != "" && k[0] >= '0' && k[0] <= '9' {
		return strings.Replace(k, "_", ".", 1)
	}
	return k
}

func decodeNumber(key string, val json.RawMessage) (float64, error) {
	var v float64
	if err := json.Unmarshal(val, &v); err != nil {
		return 0, fmt.Errorf("decode tariff key %q: %w", key, err)
	}
	return v, nil
}
