package tree

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Create validates node and inserts it. The slug must be non-empty, free of
// the separator and unused among the siblings under node's parent.
func (r *Resolver[T, PT]) Create(node PT) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		rt := r.WithDB(tx)

		if err := rt.checkSlot(node, node.NodeParentID()); err != nil {
			return err
		}

		var parent PT

		if parentID := node.NodeParentID(); parentID != nil {
			p, err := rt.ByID(*parentID)
			if err != nil {
				return err
			}

			parent = p
		}

		if err := rt.checkDepth(parent, 1); err != nil {
			return err
		}

		return tx.Create(node).Error
	})
}

// SetParent moves node below parent, or to the forest roots if parent is nil.
// Moving a node below itself or one of its descendants fails with ErrCycle,
// moving its subtree beyond the maximum depth fails with ErrTooDeep.
func (r *Resolver[T, PT]) SetParent(node, parent PT) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		rt := r.WithDB(tx)

		var parentID *uint

		if parent != nil {
			// parent must not have node among its ancestors (or be node itself)
			below, err := rt.HasAncestor(parent, node)
			if err != nil && !errors.Is(err, ErrCycle) {
				return err
			}

			if below || errors.Is(err, ErrCycle) {
				return fmt.Errorf("%w: %d cannot move below %d", ErrCycle, node.NodeID(), parent.NodeID())
			}

			id := parent.NodeID()
			parentID = &id
		}

		if err := rt.checkSlot(node, parentID); err != nil {
			return err
		}

		height, err := rt.height(node)
		if err != nil {
			return err
		}

		if err := rt.checkDepth(parent, height); err != nil {
			return err
		}

		if err := tx.Model(node).Update("parent_id", parentID).Error; err != nil {
			return err
		}

		node.SetNodeParentID(parentID)

		return nil
	})
}

// checkDepth verifies that a subtree of height levels fits below parent,
// a nil parent being the forest root.
func (r *Resolver[T, PT]) checkDepth(parent PT, height int) error {
	levels := height

	if parent != nil {
		ancestors, err := r.Ancestors(parent)
		if err != nil {
			return err
		}

		levels += len(ancestors) + 1
	}

	if levels > r.opts.maxDepth {
		return fmt.Errorf("%w: %d levels, at most %d", ErrTooDeep, levels, r.opts.maxDepth)
	}

	return nil
}

// height returns the number of levels of the subtree rooted at node. The
// walk stops once the maximum depth is exceeded.
func (r *Resolver[T, PT]) height(node PT) (int, error) {
	level := []uint{node.NodeID()}

	for height := 1; height <= r.opts.maxDepth; height++ {
		var ids []uint
		if err := r.db.Model(new(T)).Where(childrenQueryPattern, level).Pluck("id", &ids).Error; err != nil {
			return 0, err
		}

		if len(ids) == 0 {
			return height, nil
		}

		level = ids
	}

	return r.opts.maxDepth + 1, nil
}

// checkSlot verifies the slug of node is valid and free under parentID.
// SQL treats NULL parents as distinct, so root uniqueness is checked here.
func (r *Resolver[T, PT]) checkSlot(node PT, parentID *uint) error {
	slug := node.NodeSlug()

	if slug == "" {
		return ErrSlugEmpty
	}

	if strings.Contains(slug, r.opts.separator) {
		return fmt.Errorf("%w: %q", ErrSlugInvalid, slug)
	}

	sibling, err := r.child(parentID, slug)
	if errors.Is(err, ErrNotFound) {
		return nil
	}

	if err != nil {
		return err
	}

	if sibling.NodeID() != node.NodeID() || node.NodeID() == 0 {
		return fmt.Errorf("%w: %q", ErrSlugTaken, slug)
	}

	return nil
}
