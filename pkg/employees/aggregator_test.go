package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/employee-api/pkg/models"
	"github.com/hashicorp-forge/employee-api/pkg/upstream"
)

// fakeSource is an in-memory Source that counts upstream calls.
type fakeSource struct {
	employees []models.Employee
	byID      map[string]*models.Employee
	err       error

	calls   int
	created []models.EmployeeInput
	deleted []string
}

func (f *fakeSource) FetchAll(context.Context) ([]models.Employee, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.employees, nil
}

func (f *fakeSource) FetchByID(_ context.Context, id string) (*models.Employee, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, &upstream.Error{Op: "FetchByID", Err: upstream.ErrNotFound, StatusCode: 404}
	}
	return e, nil
}

func (f *fakeSource) Create(_ context.Context, input models.EmployeeInput) (*models.Employee, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, input)
	return &models.Employee{
		ID:     "new-id",
		Name:   models.String(input.Name),
		Salary: models.Int(input.Salary),
		Age:    input.Age,
		Title:  input.Title,
	}, nil
}

func (f *fakeSource) Delete(_ context.Context, id string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return &upstream.Error{Op: "Delete", Err: upstream.ErrNotFound, StatusCode: 404}
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func employee(id, name string, salary int) models.Employee {
	return models.Employee{ID: id, Name: models.String(name), Salary: models.Int(salary)}
}

func newAggregator(src *fakeSource) *Aggregator {
	return New(src, hclog.NewNullLogger())
}

func TestAggregator_FetchAll(t *testing.T) {
	t.Run("preserves upstream order", func(t *testing.T) {
		src := &fakeSource{employees: []models.Employee{
			employee("1", "Zed", 10),
			employee("2", "Amy", 30),
		}}

		got, err := newAggregator(src).FetchAll(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "1", got[0].ID)
		assert.Equal(t, "2", got[1].ID)
	})

	t.Run("propagates upstream failure", func(t *testing.T) {
		src := &fakeSource{err: &upstream.Error{Op: "FetchAll", Err: upstream.ErrRateLimited}}

		_, err := newAggregator(src).FetchAll(context.Background())
		assert.ErrorIs(t, err, upstream.ErrRateLimited)
	})
}

func TestAggregator_SearchByName(t *testing.T) {
	src := &fakeSource{employees: []models.Employee{
		employee("1", "Tiger Nixon", 320800),
		employee("2", "Bill Bob", 89750),
		{ID: "3", Salary: models.Int(1)},
		employee("4", "BOBBY Tables", 5),
	}}
	agg := newAggregator(src)

	tests := []struct {
		name     string
		fragment string
		wantIDs  []string
	}{
		{name: "lower case fragment", fragment: "bob", wantIDs: []string{"2", "4"}},
		{name: "mixed case fragment", fragment: "bOB", wantIDs: []string{"2", "4"}},
		{name: "no match", fragment: "xyz", wantIDs: []string{}},
		{name: "empty fragment matches every named employee", fragment: "", wantIDs: []string{"1", "2", "4"}},
		{name: "inner substring", fragment: "ger n", wantIDs: []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := agg.SearchByName(context.Background(), tt.fragment)
			require.NoError(t, err)

			ids := []string{}
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestAggregator_SearchByName_MatchesSubsetProperty(t *testing.T) {
	names := []string{"Ann", "anna", "Hannah", "Bob", "JOANNE", "", "Xavier"}
	var emps []models.Employee
	for i, n := range names {
		emps = append(emps, employee(fmt.Sprint(i), n, i))
	}
	agg := newAggregator(&fakeSource{employees: emps})

	for _, fragment := range []string{"an", "AN", "nn", "o", "", "x", "zzz"} {
		got, err := agg.SearchByName(context.Background(), fragment)
		require.NoError(t, err)

		var want []models.Employee
		for _, e := range emps {
			if strings.Contains(strings.ToLower(*e.Name), strings.ToLower(fragment)) {
				want = append(want, e)
			}
		}
		assert.ElementsMatch(t, want, got, "fragment %q", fragment)
	}
}

func TestAggregator_HighestSalary(t *testing.T) {
	tests := []struct {
		name      string
		employees []models.Employee
		want      int
	}{
		{
			name: "maximum salary",
			employees: []models.Employee{
				employee("1", "Tiger Nixon", 320800),
				employee("2", "Bill Bob", 89750),
			},
			want: 320800,
		},
		{name: "empty collection", employees: nil, want: 0},
		{
			name:      "all salaries null",
			employees: []models.Employee{{ID: "1", Name: models.String("A")}, {ID: "2"}},
			want:      0,
		},
		{
			name: "null salaries ignored",
			employees: []models.Employee{
				{ID: "1"},
				employee("2", "B", 7),
			},
			want: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newAggregator(&fakeSource{employees: tt.employees}).HighestSalary(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAggregator_TopEarners(t *testing.T) {
	t.Run("drops the lowest of eleven", func(t *testing.T) {
		var emps []models.Employee
		for i, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"} {
			emps = append(emps, employee(name, name, 100-10*i))
		}

		got, err := newAggregator(&fakeSource{employees: emps}).TopEarners(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}, got)
	})

	t.Run("sorts descending regardless of input order", func(t *testing.T) {
		emps := []models.Employee{
			employee("1", "Low", 10),
			employee("2", "High", 300),
			employee("3", "Mid", 200),
		}

		got, err := newAggregator(&fakeSource{employees: emps}).TopEarners(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"High", "Mid", "Low"}, got)
	})

	t.Run("equal salaries keep upstream order", func(t *testing.T) {
		emps := []models.Employee{
			employee("1", "First", 50),
			employee("2", "Top", 90),
			employee("3", "Second", 50),
			employee("4", "Third", 50),
		}

		got, err := newAggregator(&fakeSource{employees: emps}).TopEarners(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"Top", "First", "Second"}, got)
	})

	t.Run("null salaries are excluded", func(t *testing.T) {
		emps := []models.Employee{
			{ID: "1", Name: models.String("Unpaid")},
			employee("2", "Paid", 1),
		}

		got, err := newAggregator(&fakeSource{employees: emps}).TopEarners(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"Paid"}, got)
	})

	t.Run("non-positive n uses the default", func(t *testing.T) {
		var emps []models.Employee
		for i := 0; i < 15; i++ {
			emps = append(emps, employee(fmt.Sprint(i), fmt.Sprint(i), i))
		}

		got, err := newAggregator(&fakeSource{employees: emps}).TopEarners(context.Background(), 0)
		require.NoError(t, err)
		assert.Len(t, got, DefaultTopEarners)
		assert.Equal(t, "14", got[0])
	})

	t.Run("empty collection", func(t *testing.T) {
		got, err := newAggregator(&fakeSource{}).TopEarners(context.Background(), 10)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestAggregator_GetByID(t *testing.T) {
	bill := employee("5255f1a5", "Bill Bob", 89750)
	src := &fakeSource{byID: map[string]*models.Employee{"5255f1a5": &bill}}
	agg := newAggregator(src)

	t.Run("found", func(t *testing.T) {
		got, err := agg.GetByID(context.Background(), "5255f1a5")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Bill Bob", got.NameValue())
	})

	t.Run("not found returns nil", func(t *testing.T) {
		got, err := agg.GetByID(context.Background(), "ndasfhdafgdas")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	for _, id := range []string{"", "   ", "\t\n"} {
		t.Run(fmt.Sprintf("blank id %q makes no call", id), func(t *testing.T) {
			before := src.calls
			got, err := agg.GetByID(context.Background(), id)
			assert.ErrorIs(t, err, ErrBlankID)
			assert.Nil(t, got)
			assert.Equal(t, before, src.calls)
		})
	}

	t.Run("other failures propagate", func(t *testing.T) {
		failing := &fakeSource{err: &upstream.Error{Op: "FetchByID", Err: upstream.ErrUnavailable}}
		_, err := newAggregator(failing).GetByID(context.Background(), "1")
		assert.ErrorIs(t, err, upstream.ErrUnavailable)
	})
}

func TestAggregator_Create(t *testing.T) {
	t.Run("nil input makes no call", func(t *testing.T) {
		src := &fakeSource{}
		got, err := newAggregator(src).Create(context.Background(), nil)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Zero(t, src.calls)
	})

	t.Run("returns created employee", func(t *testing.T) {
		src := &fakeSource{}
		input := &models.EmployeeInput{Name: "Jill Jenkins", Salary: 139082, Age: 48, Title: "Financial Advisor"}

		got, err := newAggregator(src).Create(context.Background(), input)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Jill Jenkins", got.NameValue())
		assert.Equal(t, "Financial Advisor", got.Title)
		assert.Equal(t, []models.EmployeeInput{*input}, src.created)
	})

	t.Run("propagates failure", func(t *testing.T) {
		src := &fakeSource{err: errors.New("boom")}
		_, err := newAggregator(src).Create(context.Background(), &models.EmployeeInput{Name: "A"})
		assert.EqualError(t, err, "boom")
	})
}

func TestAggregator_Delete(t *testing.T) {
	existing := employee("d005f39a", "Jill Jenkins", 1)
	src := &fakeSource{byID: map[string]*models.Employee{"d005f39a": &existing}}
	agg := newAggregator(src)

	t.Run("success", func(t *testing.T) {
		got, err := agg.Delete(context.Background(), "d005f39a")
		require.NoError(t, err)
		assert.Equal(t, DeletedMessage, got)
		assert.Equal(t, []string{"d005f39a"}, src.deleted)
	})

	t.Run("not found is a message", func(t *testing.T) {
		got, err := agg.Delete(context.Background(), "dfgsayuidfkjhga")
		require.NoError(t, err)
		assert.Equal(t, NotFoundMessage, got)
	})

	t.Run("blank id makes no call", func(t *testing.T) {
		before := src.calls
		_, err := agg.Delete(context.Background(), "  ")
		assert.ErrorIs(t, err, ErrBlankID)
		assert.Equal(t, before, src.calls)
	})

	t.Run("rate limit propagates", func(t *testing.T) {
		failing := &fakeSource{err: &upstream.Error{Op: "Delete", Err: upstream.ErrRateLimited}}
		_, err := newAggregator(failing).Delete(context.Background(), "1")
		assert.ErrorIs(t, err, upstream.ErrRateLimited)
	})
}
