package groups

import (
	"testing"

	"github.com/Cyberdude00/aura-scouting-web/pkg/identifiers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGroups() []Group {
	return []Group{
		{Key: "korea", Name: "KOREA", LegacyOrder: []string{"pilar-sampaio", "adan", "gone", "pilar"}},
		{Key: "japan", Name: "JAPAN", LegacyOrder: []string{"zoe", "adan"}},
		{Key: "china", LegacyOrder: []string{}},
	}
}

func TestAssign_PolicyAll(t *testing.T) {
	t.Parallel()
	aliases := identifiers.MustAliases(map[string]string{"pilar-sampaio": "pilar"})

	got, added := Assign(AssignInput{
		Groups:   testGroups(),
		Subjects: []string{"pilar", "adan", "zoe", "maximo10", "maximo2", "bea"},
		Aliases:  aliases,
		Policy:   PolicyAll,
	})

	assert.Equal(t, []string{"bea", "maximo2", "maximo10"}, added)
	assert.Equal(t, []Assignment{
		{Key: "korea", Name: "KOREA", SubjectIDs: []string{"pilar", "adan", "bea", "maximo2", "maximo10"}},
		{Key: "japan", Name: "JAPAN", SubjectIDs: []string{"zoe", "adan", "bea", "maximo2", "maximo10"}},
		{Key: "china", Name: "CHINA", SubjectIDs: []string{"bea", "maximo2", "maximo10"}},
	}, got)
}

func TestAssign_PolicyListed(t *testing.T) {
	t.Parallel()
	got, added := Assign(AssignInput{
		Groups:           testGroups(),
		Subjects:         []string{"adan", "zoe", "bea"},
		Policy:           PolicyListed,
		NewSubjectGroups: []string{"japan"},
	})

	assert.Equal(t, []string{"bea"}, added)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"adan"}, got[0].SubjectIDs)
	assert.Equal(t, []string{"zoe", "adan", "bea"}, got[1].SubjectIDs)
	assert.Equal(t, []string{}, got[2].SubjectIDs)
}

func TestAssign_Completeness(t *testing.T) {
	t.Parallel()
	subjects := []string{"adan", "zoe", "bea", "pilar"}
	got, _ := Assign(AssignInput{Groups: testGroups(), Subjects: subjects, Policy: PolicyAll})

	present := map[string]bool{}
	for _, s := range subjects {
		present[s] = true
	}
	listed := map[string]bool{}
	for _, a := range got {
		for _, id := range a.SubjectIDs {
			assert.True(t, present[id], id)
			listed[id] = true
		}
	}
	for _, s := range subjects {
		assert.True(t, listed[s], s)
	}
}

func TestAssign_NoSubjects(t *testing.T) {
	t.Parallel()
	got, added := Assign(AssignInput{Groups: testGroups(), Policy: PolicyAll})
	assert.Empty(t, added)
	for _, a := range got {
		assert.Empty(t, a.SubjectIDs)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()
	out := Render([]Assignment{
		{Key: "korea", Name: "KOREA", SubjectIDs: []string{"adan", "pilar"}},
		{Key: "china", Name: "CHINA", SubjectIDs: []string{}},
	})

	assert.Equal(t, `export interface AgencyGalleryConfig {
  galleryKey: string;
  galleryName: string;
  modelIds: string[];
}

export const agencyGalleriesConfig: AgencyGalleryConfig[] = [
  {
    galleryKey: 'korea',
    galleryName: 'KOREA',
    modelIds: [
      'adan',
      'pilar',
    ],
  },
  {
    galleryKey: 'china',
    galleryName: 'CHINA',
    modelIds: [
    ],
  },
];
`, out)
}
