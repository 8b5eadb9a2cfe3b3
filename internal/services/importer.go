package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/celian-arc/aim/internal/models"
	"gorm.io/gorm"
)

// ImportMode selects what happens when a CSV row carries a license
// number that already exists.
type ImportMode string

const (
	// ImportUpsert updates the existing archer's mutable fields.
	ImportUpsert ImportMode = "upsert"
	// ImportReject records a per-row duplicate error instead.
	ImportReject ImportMode = "reject"
)

// ImportResult summarizes one file import: how many rows landed and
// the ordered human-readable errors for the rows that did not.
type ImportResult struct {
	Imported int
	Errors   []string
}

// Importer ingests the federation member export: semicolon-delimited
// CSV, UTF-8 with optional BOM, quoted fields, French headers.
type Importer struct {
	DB   *gorm.DB
	Mode ImportMode
}

func NewImporter(db *gorm.DB, mode string) *Importer {
	m := ImportMode(mode)
	if m != ImportReject {
		m = ImportUpsert
	}
	return &Importer{DB: db, Mode: m}
}

// Logical columns, matched against header text after normalization.
const (
	colLicense   = "Code adhérent"
	colFirstName = "Prénom"
	colLastName  = "Nom"
	colBirthDate = "DDN"
	colCategorie = "Catégorie âge sportif"
)

func cleanHeader(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
}

// Import processes the whole file even when individual rows fail. A
// top-level read/parse failure returns an error with zero imports.
func (im *Importer) Import(r io.Reader) (ImportResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("lecture du fichier: %w", err)
	}
	content := strings.TrimPrefix(string(raw), "\ufeff")
	if strings.TrimSpace(content) == "" {
		return ImportResult{}, errors.New("le fichier CSV est vide ou mal formaté")
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, errors.New("le fichier CSV est vide ou mal formaté")
	}
	colIndex := map[string]int{}
	for i, h := range header {
		if c := cleanHeader(h); c != "" {
			if _, seen := colIndex[c]; !seen {
				colIndex[c] = i
			}
		}
	}
	find := func(name string) int {
		if i, ok := colIndex[cleanHeader(name)]; ok {
			return i
		}
		return -1
	}
	licenseIdx := find(colLicense)
	if licenseIdx < 0 {
		// Header never matched: fall back to positional, first column.
		licenseIdx = 0
	}
	firstIdx := find(colFirstName)
	lastIdx := find(colLastName)
	dobIdx := find(colBirthDate)
	catIdx := find(colCategorie)

	get := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var res ImportResult
	for rowNum := 2; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Ligne %d: Erreur - %v", rowNum, err))
			continue
		}
		license := get(row, licenseIdx)
		firstName := get(row, firstIdx)
		lastName := get(row, lastIdx)
		dobStr := get(row, dobIdx)
		categorie := get(row, catIdx)

		if license == "" || lastName == "" {
			res.Errors = append(res.Errors, fmt.Sprintf(
				"Ligne %d: Code adhérent et Nom sont obligatoires (reçu: code='%s', nom='%s')",
				rowNum, license, lastName))
			continue
		}

		age := ageFromDOB(dobStr, time.Now())

		var existing models.Archer
		err = im.DB.Where("license_number = ?", license).First(&existing).Error
		switch {
		case err == nil && im.Mode == ImportReject:
			res.Errors = append(res.Errors, fmt.Sprintf(
				"Ligne %d: L'archer avec le code '%s' existe déjà", rowNum, license))
			continue
		case err == nil:
			existing.FirstName = firstName
			existing.LastName = lastName
			if age != nil {
				existing.Age = age
			}
			if categorie != "" {
				existing.Categorie = categorie
			}
			if err := im.DB.Save(&existing).Error; err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Ligne %d: Erreur - %v", rowNum, err))
				continue
			}
			res.Imported++
		case err == gorm.ErrRecordNotFound:
			archer := models.Archer{
				FirstName:     firstName,
				LastName:      lastName,
				LicenseNumber: license,
				Age:           age,
				Categorie:     categorie,
			}
			if err := im.DB.Create(&archer).Error; err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Ligne %d: Erreur - %v", rowNum, err))
				continue
			}
			res.Imported++
		default:
			res.Errors = append(res.Errors, fmt.Sprintf("Ligne %d: Erreur - %v", rowNum, err))
		}
	}
	return res, nil
}

// Day-first layouts seen in federation exports.
var dobLayouts = []string{"02/01/2006", "2/1/2006", "02-01-2006", "02.01.2006", "2006-01-02"}

// ageFromDOB computes the age at ref from a day-first date string.
// Unparsable dates yield nil; the row still imports.
func ageFromDOB(dobStr string, ref time.Time) *int {
	if dobStr == "" {
		return nil
	}
	var dob time.Time
	var err error
	for _, layout := range dobLayouts {
		if dob, err = time.Parse(layout, dobStr); err == nil {
			break
		}
	}
	if err != nil {
		return nil
	}
	age := ref.Year() - dob.Year()
	if ref.Month() < dob.Month() || (ref.Month() == dob.Month() && ref.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return nil
	}
	return &age
}
