package loadgen

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

// JobDescription is the posting every synthetic batch is ranked against.
const JobDescription = `Senior Backend Engineer
We are hiring a backend engineer with strong Python, Django, Go and Kubernetes experience.
You will design APIs, run services on AWS and ship with Docker and Terraform.`

// Skill lists posted with every request.
var (
	HardSkills = []string{"python", "django", "go", "kubernetes"}
	NiceSkills = []string{"aws", "docker", "terraform"}
)

var (
	skillPool = []string{
		"python", "django", "go", "kubernetes", "aws", "docker", "terraform",
		"postgresql", "react", "kafka", "java", "redis", "linux", "git",
	}
	employers = []string{"Acme Corp", "Globex", "Initech", "Umbrella", "Hooli", "Stark Industries"}
	titles    = []string{"Software Engineer", "Backend Developer", "Senior Engineer", "Platform Engineer"}
	months    = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	degrees   = []string{"B.Sc. Computer Science", "M.Sc. Software Engineering", "Bachelor of Engineering"}
)

// Upload is one generated file.
type Upload struct {
	Filename string
	Body     []byte
}

// Generator produces reproducible synthetic resumes.
type Generator struct {
	mu      sync.Mutex
	rng     *rand.Rand
	invalid int
}

// NewGenerator creates a generator. Every invalid-th resume is emitted as
// an unsupported file type; zero disables that.
func NewGenerator(seed int64, invalid int) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed)), invalid: invalid} //nolint:gosec // synthetic data
}

// Batch returns n uploads for request number req. Filenames are unique
// across requests.
func (g *Generator) Batch(req, n int) []Upload {
	out := make([]Upload, n)
	for i := range out {
		out[i] = g.resume(req*n + i)
	}
	return out
}

// IsInvalid reports whether the upload has an unsupported extension.
func (u Upload) IsInvalid() bool {
	return strings.HasSuffix(u.Filename, ".bin")
}

func (g *Generator) resume(index int) Upload {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.invalid > 0 && (index+1)%g.invalid == 0 {
		return Upload{Filename: fmt.Sprintf("resume_%05d.bin", index), Body: []byte{0x00, 0x01, 0x02}}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Candidate %d\n", index)
	fmt.Fprintf(&b, "Email: candidate%d@example.com\n", index)
	fmt.Fprintf(&b, "Phone: +1 555 %03d %04d\n\n", index%1000, g.rng.Intn(10000))

	fmt.Fprintf(&b, "Skills: %s\n\n", strings.Join(g.pick(skillPool, 3+g.rng.Intn(6)), ", "))

	b.WriteString("Experience\n")
	year := 2012 + g.rng.Intn(6)
	jobs := 1 + g.rng.Intn(3)
	for j := 0; j < jobs; j++ {
		startMonth := g.rng.Intn(12)
		span := 1 + g.rng.Intn(3)
		end := fmt.Sprintf("%s %d", months[g.rng.Intn(12)], year+span)
		if j == jobs-1 {
			end = "Present"
		}
		fmt.Fprintf(&b, "%s, %s\n%s %d - %s\n",
			titles[g.rng.Intn(len(titles))], employers[g.rng.Intn(len(employers))],
			months[startMonth], year, end)
		// Some candidates leave a gap before the next role.
		year += span + g.rng.Intn(2)
	}

	b.WriteString("\nEducation\n")
	b.WriteString(degrees[g.rng.Intn(len(degrees))])
	b.WriteString("\n")

	return Upload{Filename: fmt.Sprintf("resume_%05d.txt", index), Body: []byte(b.String())}
}

// pick returns n distinct entries of pool in random order.
func (g *Generator) pick(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	idx := g.rng.Perm(len(pool))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}
