package services

import (
	"context"
	"fmt"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
)

// DefaultMaxHierarchyDepth is the deepest account tree, counted in levels from a root
// account down to its deepest descendant, that mutations may produce.
const DefaultMaxHierarchyDepth = 64

// hierarchyGuard checks parent assignments against cycles and the depth limit.
// Callers must hold the hierarchy lock.
type hierarchyGuard struct {
	maxDepth int
}

// checkMove verifies that an existing account, together with its live subtree, can be placed under parent.
func (g hierarchyGuard) checkMove(ctx context.Context, accounts portsrepo.AccountReader, acc, parent *domain.Account) error {
	parentLevel, err := g.levelOf(ctx, accounts, acc.AccountID, acc.Code, parent)
	if err != nil {
		return err
	}
	height, err := g.heightOf(ctx, accounts, acc)
	if err != nil {
		return err
	}
	return g.checkDepth(acc.Code, parent, parentLevel+height)
}

// checkNewChild verifies that a new leaf account can be created under parent.
func (g hierarchyGuard) checkNewChild(ctx context.Context, accounts portsrepo.AccountReader, code string, parent *domain.Account) error {
	parentLevel, err := g.levelOf(ctx, accounts, "", code, parent)
	if err != nil {
		return err
	}
	return g.checkDepth(code, parent, parentLevel+1)
}

func (g hierarchyGuard) checkDepth(code string, parent *domain.Account, depth int) error {
	if depth > g.maxDepth {
		return &apperrors.HierarchyDepthError{AccountCode: code, ParentCode: parent.Code, Depth: depth, Limit: g.maxDepth}
	}
	return nil
}

// levelOf returns the 1-based level of parent, walking up through its ancestors.
// Meeting accountID on the way means the move would make the account its own ancestor.
func (g hierarchyGuard) levelOf(ctx context.Context, accounts portsrepo.AccountReader, accountID, code string, parent *domain.Account) (int, error) {
	visited := make(map[string]bool)
	current := parent

	for level := 1; ; level++ {
		if accountID != "" && current.AccountID == accountID {
			return 0, &apperrors.CycleError{AccountCode: code, ParentCode: parent.Code}
		}
		if visited[current.AccountID] {
			return 0, fmt.Errorf("account hierarchy above %s already contains a cycle at %s", parent.Code, current.Code)
		}
		if level >= g.maxDepth {
			// parent sits on the last level, nothing more can go below it
			return level, nil
		}
		visited[current.AccountID] = true
		if current.ParentAccountID == "" {
			return level, nil
		}
		next, err := accounts.FindAccountByID(ctx, current.ParentAccountID, domain.IncludeDeleted)
		if err != nil {
			return 0, fmt.Errorf("failed to walk ancestors of %s: %w", parent.Code, err)
		}
		current = next
	}
}

// heightOf counts the levels of acc's live subtree, acc included. The walk gives up
// one level past the depth limit.
func (g hierarchyGuard) heightOf(ctx context.Context, accounts portsrepo.AccountReader, acc *domain.Account) (int, error) {
	visited := map[string]bool{acc.AccountID: true}
	frontier := []string{acc.AccountID}
	height := 0

	for len(frontier) > 0 {
		height++
		if height > g.maxDepth {
			return height, nil
		}
		var next []string
		for _, parentID := range frontier {
			children, err := accounts.ListChildAccounts(ctx, parentID, domain.ExcludeDeleted)
			if err != nil {
				return 0, fmt.Errorf("failed to list children of %s: %w", parentID, err)
			}
			for _, child := range children {
				if visited[child.AccountID] {
					continue
				}
				visited[child.AccountID] = true
				next = append(next, child.AccountID)
			}
		}
		frontier = next
	}
	return height, nil
}
