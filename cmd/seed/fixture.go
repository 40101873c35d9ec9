package main

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fixture.yaml
var defaultFixture []byte

type fixture struct {
	Makes   []makeFixture   `yaml:"makes"`
	Reviews []reviewFixture `yaml:"reviews"`
}

type makeFixture struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Models      []modelFixture `yaml:"models"`
}

type modelFixture struct {
	DealerID int    `yaml:"dealer_id"`
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Year     int    `yaml:"year"`
}

type reviewFixture struct {
	ID           int    `yaml:"id"`
	Name         string `yaml:"name"`
	Dealership   int    `yaml:"dealership"`
	Review       string `yaml:"review"`
	Purchase     bool   `yaml:"purchase"`
	PurchaseDate string `yaml:"purchase_date"`
	CarMake      string `yaml:"car_make"`
	CarModel     string `yaml:"car_model"`
	CarYear      int    `yaml:"car_year"`
	Username     string `yaml:"username"`
}

// loadFixture は path のフィクスチャを読み込む。path が空なら埋め込みの既定値を使う。
func loadFixture(path string) (fixture, error) {
	data := defaultFixture
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fixture{}, fmt.Errorf("%s の読み込みに失敗しました: %w", path, err)
		}
		data = raw
	}
	return parseFixture(data)
}

func parseFixture(data []byte) (fixture, error) {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fixture{}, fmt.Errorf("フィクスチャの形式が不正です: %w", err)
	}
	if err := f.validate(); err != nil {
		return fixture{}, err
	}
	return f, nil
}

func (f fixture) validate() error {
	var errs []error
	seen := make(map[int]struct{}, len(f.Reviews))
	for i, r := range f.Reviews {
		if r.Dealership <= 0 {
			errs = append(errs, fmt.Errorf("reviews[%d]: dealership must be positive", i))
		}
		if r.Name == "" || r.Review == "" || r.Username == "" {
			errs = append(errs, fmt.Errorf("reviews[%d]: name, review and username are required", i))
		}
		if r.ID < 0 {
			errs = append(errs, fmt.Errorf("reviews[%d]: id must not be negative", i))
			continue
		}
		if r.ID == 0 {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			errs = append(errs, fmt.Errorf("reviews[%d]: duplicate id %d", i, r.ID))
		}
		seen[r.ID] = struct{}{}
	}
	return errors.Join(errs...)
}
