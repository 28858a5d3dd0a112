// Package tekton holds the manifest records the compiler produces: Task,
// TaskRun, PipelineResource and ServiceAccount, shaped after the
// tekton.dev/v1alpha1 API.
package tekton

const (
	APIVersion     = "tekton.dev/v1alpha1"
	CoreAPIVersion = "v1"

	KindTask             = "Task"
	KindTaskRun          = "TaskRun"
	KindPipelineResource = "PipelineResource"
	KindServiceAccount   = "ServiceAccount"

	ParamTypeString = "string"
)

// Object is implemented by every manifest record.
type Object interface {
	GetAPIVersion() string
	GetKind() string
	GetName() string
}

type TypeMeta struct {
	APIVersion string `json:"apiVersion" yaml:"apiVersion"`
	Kind       string `json:"kind" yaml:"kind"`
}

func (m TypeMeta) GetAPIVersion() string { return m.APIVersion }
func (m TypeMeta) GetKind() string       { return m.Kind }

type ObjectMeta struct {
	Name string `json:"name" yaml:"name"`
}

type EnvVar struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

type Step struct {
	Name    string   `json:"name" yaml:"name"`
	Image   string   `json:"image" yaml:"image"`
	Command []string `json:"command" yaml:"command"`
	Args    []string `json:"args" yaml:"args"`
	Env     []EnvVar `json:"env,omitempty" yaml:"env,omitempty"`
}

type ParamSpec struct {
	Name    string  `json:"name" yaml:"name"`
	Type    string  `json:"type" yaml:"type"`
	Default *string `json:"default,omitempty" yaml:"default,omitempty"`
}

type TaskResource struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

type TaskInputs struct {
	Params    []ParamSpec    `json:"params" yaml:"params"`
	Resources []TaskResource `json:"resources" yaml:"resources"`
}

type TaskOutputs struct {
	Resources []TaskResource `json:"resources" yaml:"resources"`
}

type TaskSpec struct {
	Inputs  TaskInputs  `json:"inputs" yaml:"inputs"`
	Outputs TaskOutputs `json:"outputs" yaml:"outputs"`
	Steps   []Step      `json:"steps" yaml:"steps"`
}

type Task struct {
	TypeMeta `json:",inline" yaml:",inline"`
	Metadata ObjectMeta `json:"metadata" yaml:"metadata"`
	Spec     TaskSpec   `json:"spec" yaml:"spec"`
}

func (t Task) GetName() string { return t.Metadata.Name }

type Param struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

type ResourceRef struct {
	Name string `json:"name" yaml:"name"`
}

type TaskResourceBinding struct {
	Name        string      `json:"name" yaml:"name"`
	ResourceRef ResourceRef `json:"resourceRef" yaml:"resourceRef"`
}

type TaskRef struct {
	Name string `json:"name" yaml:"name"`
}

type TaskRunInputs struct {
	Params    []Param               `json:"params" yaml:"params"`
	Resources []TaskResourceBinding `json:"resources" yaml:"resources"`
}

type TaskRunOutputs struct {
	Resources []TaskResourceBinding `json:"resources" yaml:"resources"`
}

type TaskRunSpec struct {
	TaskRef            TaskRef        `json:"taskRef" yaml:"taskRef"`
	Inputs             TaskRunInputs  `json:"inputs" yaml:"inputs"`
	Outputs            TaskRunOutputs `json:"outputs" yaml:"outputs"`
	ServiceAccountName string         `json:"serviceAccountName,omitempty" yaml:"serviceAccountName,omitempty"`
}

type TaskRun struct {
	TypeMeta `json:",inline" yaml:",inline"`
	Metadata ObjectMeta  `json:"metadata" yaml:"metadata"`
	Spec     TaskRunSpec `json:"spec" yaml:"spec"`
}

func (r TaskRun) GetName() string { return r.Metadata.Name }

type ResourceParam struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

type PipelineResourceSpec struct {
	Type   string          `json:"type" yaml:"type"`
	Params []ResourceParam `json:"params" yaml:"params"`
}

type PipelineResource struct {
	TypeMeta `json:",inline" yaml:",inline"`
	Metadata ObjectMeta           `json:"metadata" yaml:"metadata"`
	Spec     PipelineResourceSpec `json:"spec" yaml:"spec"`
}

func (r PipelineResource) GetName() string { return r.Metadata.Name }

type ObjectReference struct {
	Name string `json:"name" yaml:"name"`
}

type ServiceAccount struct {
	TypeMeta `json:",inline" yaml:",inline"`
	Metadata ObjectMeta        `json:"metadata" yaml:"metadata"`
	Secrets  []ObjectReference `json:"secrets" yaml:"secrets"`
}

func (s ServiceAccount) GetName() string { return s.Metadata.Name }
