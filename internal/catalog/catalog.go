package catalog

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"

	"lammastore/internal/models"
	"lammastore/internal/store"
)

const (
	packagesCollection = "packages"
	settingsCollection = "settings"
	settingsDocID      = "site_config"
)

// Service reads and reconciles the package catalog and the site settings
// document against the remote store.
type Service struct {
	store store.DocumentStore
}

func NewService(st store.DocumentStore) *Service {
	return &Service{store: st}
}

// FetchPackages returns the remote catalog, or the default dataset when the
// remote store is unreachable, empty, or holds undecodable documents. It
// never mixes remote and default items and never fails the caller.
func (s *Service) FetchPackages(ctx context.Context) []models.Package {
	docs, err := s.store.GetAll(ctx, packagesCollection)
	if err != nil {
		log.Println("[CATALOG] fetch packages failed, serving defaults:", err)
		return DefaultPackages()
	}
	if len(docs) == 0 {
		return DefaultPackages()
	}

	packages := make([]models.Package, 0, len(docs))
	for _, doc := range docs {
		pkg, err := decodePackage(doc)
		if err != nil {
			log.Printf("[CATALOG] package %s undecodable, serving defaults: %v", doc.ID, err)
			return DefaultPackages()
		}
		packages = append(packages, pkg)
	}
	return packages
}

// FetchSettings returns the raw remote settings document, or the default
// settings unmerged when the document is absent or unreachable. Merging over
// the defaults is the caller's job.
func (s *Service) FetchSettings(ctx context.Context) map[string]any {
	raw, err := s.store.GetOne(ctx, settingsCollection, settingsDocID)
	if err != nil {
		if err != store.ErrNotFound {
			log.Println("[CATALOG] fetch settings failed, serving defaults:", err)
		}
		return DefaultSettings().Doc()
	}
	return raw
}

// SaveSettings replaces the settings document wholesale.
func (s *Service) SaveSettings(ctx context.Context, settings models.Settings) error {
	return s.store.Set(ctx, settingsCollection, settingsDocID, bson.M(settings.Doc()))
}

// ReconcilePackages makes the remote catalog exactly equal to desired: every
// remote document whose id is not in desired is deleted, every desired
// package is written with null-valued fields stripped, and the whole diff
// commits as one atomic batch. Calling it twice with the same list is a
// no-op.
func (s *Service) ReconcilePackages(ctx context.Context, desired []models.Package) error {
	keep := make(map[string]struct{}, len(desired))
	for _, pkg := range desired {
		id := pkg.ID.String()
		if id == "" {
			return fmt.Errorf("package %q has no id", pkg.Title)
		}
		if _, dup := keep[id]; dup {
			return fmt.Errorf("duplicate package id %s", id)
		}
		keep[id] = struct{}{}
	}

	current, err := s.store.GetAll(ctx, packagesCollection)
	if err != nil {
		return fmt.Errorf("read current catalog: %w", err)
	}

	ops := make([]store.BatchOp, 0, len(current)+len(desired))
	for _, doc := range current {
		if _, ok := keep[doc.ID]; !ok {
			ops = append(ops, store.DeleteOp(packagesCollection, doc.ID))
		}
	}
	for _, pkg := range desired {
		data, err := packageDoc(pkg)
		if err != nil {
			return fmt.Errorf("encode package %s: %w", pkg.ID, err)
		}
		ops = append(ops, store.SetOp(packagesCollection, pkg.ID.String(), data))
	}

	return s.store.Commit(ctx, ops)
}

func decodePackage(doc store.Doc) (models.Package, error) {
	data, err := bson.Marshal(doc.Data)
	if err != nil {
		return models.Package{}, err
	}

	var pkg models.Package
	if err := bson.Unmarshal(data, &pkg); err != nil {
		return models.Package{}, err
	}
	pkg.ID = models.FlexID(doc.ID)
	return pkg, nil
}

// packageDoc flattens a package into its document form without the _id and
// without null-valued fields: the remote store must never see a null, the
// key is omitted instead.
func packageDoc(pkg models.Package) (bson.M, error) {
	data, err := bson.Marshal(pkg)
	if err != nil {
		return nil, err
	}

	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	delete(doc, "_id")
	for key, value := range doc {
		if value == nil {
			delete(doc, key)
		}
	}
	return doc, nil
}
